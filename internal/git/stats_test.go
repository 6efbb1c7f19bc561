package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestParseNumstat(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Stats
		wantErr bool
	}{
		{
			name:   "empty output",
			output: "",
			want:   Stats{},
		},
		{
			name:   "single file",
			output: "12\t3\tmain.go\n",
			want:   Stats{FilesChanged: 1, LinesAdded: 12, LinesRemoved: 3},
		},
		{
			name:   "same file in commit and working tree",
			output: "5\t1\tmain.go\n\n2\t0\tmain.go\n4\t4\tdb.go\n",
			want:   Stats{FilesChanged: 2, LinesAdded: 11, LinesRemoved: 5},
		},
		{
			name:   "binary file",
			output: "-\t-\tlogo.png\n",
			want:   Stats{FilesChanged: 1},
		},
		{
			name:    "malformed line",
			output:  "not numstat\n",
			wantErr: true,
		},
		{
			name:    "non numeric count",
			output:  "x\t1\tmain.go\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumstat(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNumstat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseNumstat() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStats_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	_, err := NewStatsCollector().Stats(t.TempDir(), time.Now().Add(-time.Hour))
	if err == nil {
		t.Error("Stats() should fail outside a git repository")
	}
}

func TestStats_EmptyPath(t *testing.T) {
	if _, err := NewStatsCollector().Stats("", time.Now()); err == nil {
		t.Error("Stats() should fail without a repository path")
	}
}

func TestStats_Repository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := t.TempDir()
	gitCmd := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{
			"-C", repo,
			"-c", "user.name=devflow",
			"-c", "user.email=devflow@example.com",
			"-c", "commit.gpgsign=false",
		}, args...)...)
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, output)
		}
	}

	gitCmd("init", "-q")
	writeFile(t, filepath.Join(repo, "main.go"), "package main\n\nfunc main() {}\n")
	gitCmd("add", "main.go")
	gitCmd("commit", "-q", "-m", "initial")

	// Uncommitted edit on top of the commit
	writeFile(t, filepath.Join(repo, "main.go"), "package main\n")

	stats, err := NewStatsCollector().Stats(repo, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}

	if stats.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", stats.FilesChanged)
	}
	if stats.LinesAdded != 3 {
		t.Errorf("LinesAdded = %d, want 3", stats.LinesAdded)
	}
	if stats.LinesRemoved != 2 {
		t.Errorf("LinesRemoved = %d, want 2", stats.LinesRemoved)
	}
}

func TestStats_RepositoryWithoutCommits(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := t.TempDir()
	if output, err := exec.Command("git", "-C", repo, "init", "-q").CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v\n%s", err, output)
	}

	writeFile(t, filepath.Join(repo, "main.go"), "package main\n\nfunc main() {}\n")
	writeFile(t, filepath.Join(repo, "README.md"), "# new\n")
	if output, err := exec.Command("git", "-C", repo, "add", "main.go", "README.md").CombinedOutput(); err != nil {
		t.Fatalf("git add failed: %v\n%s", err, output)
	}

	stats, err := NewStatsCollector().Stats(repo, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}

	want := Stats{FilesChanged: 2, LinesAdded: 4, LinesRemoved: 0}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
