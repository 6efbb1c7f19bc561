package fuzzy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Finder represents the type of fuzzy finder available
type Finder string

const (
	FinderFzf  Finder = "fzf"
	FinderPeco Finder = "peco"
	FinderNone Finder = "none"
)

// ErrCancelled is returned when the user aborts the picker
var ErrCancelled = eris.New("selection cancelled")

// SelectUsing honours a configured finder: "fzf" or "peco" force that finder when
// installed, "none" always uses the numbered prompt, anything else auto-detects
func SelectUsing(items []string, prompt, preference string) (string, error) {
	if len(items) == 0 {
		return "", eris.New("no items available to select")
	}

	switch Finder(preference) {
	case FinderNone:
		return SelectWithPrompt(items, prompt, os.Stdin, os.Stderr)
	case FinderFzf, FinderPeco:
		if _, err := exec.LookPath(preference); err == nil {
			return RunFuzzyFinder(items, preference, prompt)
		}
	}

	return Select(items, prompt)
}

// Select presents a fuzzy finder interface to select an item from a list
func Select(items []string, prompt string) (string, error) {
	if len(items) == 0 {
		return "", eris.New("no items available to select")
	}

	finder, err := DetectFuzzyFinder()
	if err != nil {
		return SelectWithPrompt(items, prompt, os.Stdin, os.Stderr)
	}

	return RunFuzzyFinder(items, string(finder), prompt)
}

// DetectFuzzyFinder detects which fuzzy finder is available on the system
// Checks in order: fzf, peco
func DetectFuzzyFinder() (Finder, error) {
	if _, err := exec.LookPath("fzf"); err == nil {
		return FinderFzf, nil
	}

	if _, err := exec.LookPath("peco"); err == nil {
		return FinderPeco, nil
	}

	return FinderNone, eris.New("no fuzzy finder found (install fzf or peco)")
}

// finderArgs returns the command line for a finder
func finderArgs(finder Finder, prompt string) ([]string, error) {
	switch finder {
	case FinderFzf:
		args := []string{"fzf", "--height", "40%", "--reverse", "--border"}
		if prompt != "" {
			args = append(args, "--prompt", prompt+"> ")
		}
		return args, nil
	case FinderPeco:
		args := []string{"peco"}
		if prompt != "" {
			args = append(args, "--prompt", prompt+">")
		}
		return args, nil
	default:
		return nil, eris.Errorf("unknown fuzzy finder: %s", finder)
	}
}

// RunFuzzyFinder runs the specified fuzzy finder with the given items.
// Items are fed on stdin; both finders read keystrokes from the terminal directly.
func RunFuzzyFinder(items []string, finder string, prompt string) (string, error) {
	args, err := finderArgs(Finder(finder), prompt)
	if err != nil {
		return "", err
	}

	var stdout bytes.Buffer
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(strings.Join(items, "\n") + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// fzf exits 130 on ctrl-c/esc and 1 when nothing matched
		if exitErr, ok := err.(*exec.ExitError); ok && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return "", ErrCancelled
		}
		return "", eris.Wrap(err, "fuzzy finder failed")
	}

	selected := strings.TrimSpace(stdout.String())
	if selected == "" {
		return "", eris.New("no selection made")
	}

	return selected, nil
}

// SelectWithPrompt is the fallback when no fuzzy finder is available.
// It writes a numbered list to out and reads the chosen number from in.
func SelectWithPrompt(items []string, prompt string, in io.Reader, out io.Writer) (string, error) {
	if len(items) == 0 {
		return "", eris.New("no items available to select")
	}

	if prompt == "" {
		prompt = "Select an option"
	}
	fmt.Fprintf(out, "%s:\n", prompt)
	for i, item := range items {
		fmt.Fprintf(out, "%3d. %s\n", i+1, item)
	}
	fmt.Fprintf(out, "\nEnter number (1-%d): ", len(items))

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", eris.Wrap(err, "failed to read input")
	}

	selection, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return "", eris.Wrap(err, "invalid selection")
	}

	if selection < 1 || selection > len(items) {
		return "", eris.Errorf("selection out of range (1-%d)", len(items))
	}

	return items[selection-1], nil
}

// IsAvailable checks if a fuzzy finder is available on the system
func IsAvailable() bool {
	_, err := DetectFuzzyFinder()
	return err == nil
}

// GetAvailableFinder returns the name of the available fuzzy finder
func GetAvailableFinder() string {
	finder, err := DetectFuzzyFinder()
	if err != nil {
		return string(FinderNone)
	}
	return string(finder)
}
