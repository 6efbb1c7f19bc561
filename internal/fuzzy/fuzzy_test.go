package fuzzy

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"
)

func TestDetectFuzzyFinder(t *testing.T) {
	_, fzfErr := exec.LookPath("fzf")
	_, pecoErr := exec.LookPath("peco")

	finder, err := DetectFuzzyFinder()

	switch {
	case fzfErr == nil:
		if err != nil || finder != FinderFzf {
			t.Errorf("DetectFuzzyFinder() = %s, %v; want %s when fzf is available", finder, err, FinderFzf)
		}
	case pecoErr == nil:
		if err != nil || finder != FinderPeco {
			t.Errorf("DetectFuzzyFinder() = %s, %v; want %s when peco is available", finder, err, FinderPeco)
		}
	default:
		if err == nil {
			t.Error("DetectFuzzyFinder() should return error when no fuzzy finder is available")
		}
		if finder != FinderNone {
			t.Errorf("DetectFuzzyFinder() = %s, want %s", finder, FinderNone)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	_, err := DetectFuzzyFinder()
	if IsAvailable() != (err == nil) {
		t.Errorf("IsAvailable() = %v, want %v", IsAvailable(), err == nil)
	}
}

func TestGetAvailableFinder(t *testing.T) {
	valid := map[string]bool{"fzf": true, "peco": true, "none": true}
	if finder := GetAvailableFinder(); !valid[finder] {
		t.Errorf("GetAvailableFinder() returned unknown finder: %s", finder)
	}
}

func TestSelect_EmptyList(t *testing.T) {
	if _, err := Select([]string{}, "template"); err == nil {
		t.Error("Select() should return error for empty list")
	}
}

func TestRunFuzzyFinder_UnknownFinder(t *testing.T) {
	if _, err := RunFuzzyFinder([]string{"a", "b"}, "unknown-finder", ""); err == nil {
		t.Error("RunFuzzyFinder() should return error for unknown finder")
	}
}

func TestFinderArgs(t *testing.T) {
	tests := []struct {
		finder Finder
		prompt string
		want   string
	}{
		{FinderFzf, "", "fzf --height 40% --reverse --border"},
		{FinderFzf, "Template", "fzf --height 40% --reverse --border --prompt Template> "},
		{FinderPeco, "", "peco"},
		{FinderPeco, "Template", "peco --prompt Template>"},
	}

	for _, tt := range tests {
		args, err := finderArgs(tt.finder, tt.prompt)
		if err != nil {
			t.Fatalf("finderArgs(%s) failed: %v", tt.finder, err)
		}
		if got := strings.Join(args, " "); got != tt.want {
			t.Errorf("finderArgs(%s, %q) = %q, want %q", tt.finder, tt.prompt, got, tt.want)
		}
	}

	if _, err := finderArgs(FinderNone, ""); err == nil {
		t.Error("finderArgs(none) should fail")
	}
}

func TestSelectWithPrompt(t *testing.T) {
	items := []string{"webapp", "cli", "library"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "first", input: "1\n", want: "webapp"},
		{name: "last without newline", input: "3", want: "library"},
		{name: "padded", input: "  2 \n", want: "cli"},
		{name: "zero", input: "0\n", wantErr: true},
		{name: "too large", input: "4\n", wantErr: true},
		{name: "not a number", input: "cli\n", wantErr: true},
		{name: "no input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := SelectWithPrompt(items, "Select a template", strings.NewReader(tt.input), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectWithPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SelectWithPrompt() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), "  2. cli") {
				t.Errorf("prompt output missing numbered item:\n%s", out.String())
			}
		})
	}
}

func TestFinderConstants(t *testing.T) {
	tests := []struct {
		finder Finder
		want   string
	}{
		{FinderFzf, "fzf"},
		{FinderPeco, "peco"},
		{FinderNone, "none"},
	}

	for _, tt := range tests {
		if string(tt.finder) != tt.want {
			t.Errorf("Finder constant %s = %q, want %q", tt.want, string(tt.finder), tt.want)
		}
	}
}

func TestSelectUsing_EmptyList(t *testing.T) {
	for _, preference := range []string{"auto", "fzf", "peco", "none"} {
		if _, err := SelectUsing(nil, "template", preference); err == nil {
			t.Errorf("SelectUsing(%s) should return error for empty list", preference)
		}
	}
}
