package git

import (
	"bufio"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Stats summarises the changes made in a repository during a session
type Stats struct {
	FilesChanged int
	LinesAdded   int
	LinesRemoved int
}

// StatsCollector reads change statistics from the git executable
type StatsCollector struct {
	// Binary is the git executable, "git" when empty
	Binary string
}

// NewStatsCollector returns a collector using git from PATH
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{Binary: "git"}
}

// Stats counts the files and lines touched in repoPath since the given time.
// Commits made after since and uncommitted changes against HEAD are both included;
// a file touched by several of them is counted once.
func (c *StatsCollector) Stats(repoPath string, since time.Time) (Stats, error) {
	if repoPath == "" {
		return Stats{}, eris.New("no repository path")
	}

	// A repository without commits has no HEAD to log or diff against;
	// everything staged so far is the session's work
	if !c.hasHead(repoPath) {
		staged, err := c.run(repoPath, "diff", "--cached", "--numstat")
		if err != nil {
			return Stats{}, eris.Wrap(err, "failed to read staged stats")
		}
		return ParseNumstat(staged)
	}

	committed, err := c.run(
		repoPath,
		"log",
		"--since="+since.Format(time.RFC3339),
		"--numstat",
		"--format=",
	)
	if err != nil {
		return Stats{}, eris.Wrap(err, "failed to read commit stats")
	}

	uncommitted, err := c.run(repoPath, "diff", "HEAD", "--numstat")
	if err != nil {
		return Stats{}, eris.Wrap(err, "failed to read working tree stats")
	}

	return ParseNumstat(committed + "\n" + uncommitted)
}

// hasHead reports whether repoPath has at least one commit
func (c *StatsCollector) hasHead(repoPath string) bool {
	_, err := c.run(repoPath, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

func (c *StatsCollector) run(repoPath string, args ...string) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.Command(binary, append([]string{"-C", repoPath}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", eris.Wrapf(err, "git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", eris.Wrapf(err, "git %s", args[0])
	}

	return string(output), nil
}

// ParseNumstat aggregates `git --numstat` output ("added<TAB>removed<TAB>path" per line).
// Binary files report "-" for both counts and contribute a file but no lines.
func ParseNumstat(output string) (Stats, error) {
	var stats Stats
	files := make(map[string]struct{})

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			return Stats{}, eris.Errorf("unexpected numstat line: %q", line)
		}

		added, err := parseCount(fields[0])
		if err != nil {
			return Stats{}, err
		}
		removed, err := parseCount(fields[1])
		if err != nil {
			return Stats{}, err
		}

		files[fields[2]] = struct{}{}
		stats.LinesAdded += added
		stats.LinesRemoved += removed
	}

	if err := scanner.Err(); err != nil {
		return Stats{}, eris.Wrap(err, "failed to read numstat output")
	}

	stats.FilesChanged = len(files)
	return stats, nil
}

func parseCount(field string) (int, error) {
	if field == "-" {
		return 0, nil
	}

	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid numstat count: %q", field)
	}
	return n, nil
}
