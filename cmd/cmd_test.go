package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benoctopus/devflow/internal/clock"
	"github.com/benoctopus/devflow/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv isolates configuration and the database, and fixes the clock
type testEnv struct {
	t     *testing.T
	dir   string
	clock *clock.Manual
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	t.Setenv("DEVFLOW_DB_PATH", filepath.Join(dir, "devflow.db"))
	t.Setenv("DEVFLOW_LOG_LEVEL", "")
	t.Setenv("DEVFLOW_FUZZY_FINDER", "")

	env := &testEnv{
		t:     t,
		dir:   dir,
		clock: &clock.Manual{T: time.Date(2024, time.September, 2, 10, 0, 0, 0, time.Local)},
	}

	previous, noColor := appClock, color.NoColor
	appClock = env.clock
	color.NoColor = true
	t.Cleanup(func() {
		appClock = previous
		color.NoColor = noColor
	})

	return env
}

// resetFlags restores every flag to its default so runs do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("devflow %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output missing %q:\n%s", want, output)
	}
}

func TestStartStopFlow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("start", "api")
	assertContains(t, out, "Started session for 'api'")

	out = env.mustRun("status")
	assertContains(t, out, "Active Session: api")

	env.clock.Advance(30 * time.Minute)
	out = env.mustRun("stop")
	assertContains(t, out, "Stopped session for 'api'")
	assertContains(t, out, "30m 0s")
	assertContains(t, out, "Streak: 1 day")
	assertContains(t, out, "Achievement unlocked: First Steps")

	out = env.mustRun("status")
	assertContains(t, out, "No active session")
}

func TestStart_AlreadyActiveIsWarning(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("start", "api")
	_, stderr, err := env.run("start", "web")
	if err != nil {
		t.Fatalf("start while active should not fail the command: %v", err)
	}
	assertContains(t, stderr, "Session already active for 'api'")
}

func TestStop_NoSessionIsWarning(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run("stop")
	if err != nil {
		t.Fatalf("stop while idle should not fail the command: %v", err)
	}
	assertContains(t, stderr, "No active session found")
}

func TestNoteAndTag(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run("note", "nothing", "running")
	if err != nil {
		t.Fatalf("note while idle failed: %v", err)
	}
	assertContains(t, stderr, "No active session found")

	env.mustRun("start", "api")
	assertContains(t, env.mustRun("note", "fixed", "the", "bug"), "Note added to 'api'")
	assertContains(t, env.mustRun("tag", "bugfix"), "Tagged 'api' with bugfix")
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)

	for _, project := range []string{"api", "web"} {
		env.mustRun("start", project)
		env.clock.Advance(45 * time.Minute)
		env.mustRun("stop")
	}

	out := env.mustRun("stats")
	assertContains(t, out, "Productivity Stats (Last 7 days)")
	assertContains(t, out, "Total Sessions: 2")
	assertContains(t, out, "Total Coding Time: 1h 30m")

	out = env.mustRun("summary", "api")
	assertContains(t, out, "Weekly Summary: api")
	assertContains(t, out, "Productivity: 10.7%")

	out = env.mustRun("summary", "api", "--days", "3")
	assertContains(t, out, "Productivity: 10.7%")
	assertContains(t, out, "Productivity (3 days): 25.0%")

	out = env.mustRun("leaderboard")
	assertContains(t, out, "1. api")
	assertContains(t, out, "2. web")

	out = env.mustRun("distribution")
	assertContains(t, out, "Peak hour: 10:00")

	out = env.mustRun("streak")
	assertContains(t, out, "Current: 1 day")

	out = env.mustRun("achievements", "api")
	assertContains(t, out, "First Steps")
	assertContains(t, out, "Marathon Coder")

	out = env.mustRun("heatmap", "--weeks", "4")
	assertContains(t, out, "Activity Heatmap (Last 4 weeks)")
}

func TestGoals(t *testing.T) {
	env := newTestEnv(t)

	assertContains(t, env.mustRun("goals", "show"), "No goal set for today")
	assertContains(t, env.mustRun("goals", "set", "2"), "Daily goal set: 2h")

	env.mustRun("start", "api")
	env.clock.Advance(time.Hour)
	env.mustRun("stop")

	out := env.mustRun("goals", "show")
	assertContains(t, out, "1h 0m / 2h 0m (50.0%)")

	if _, _, err := env.run("goals", "set", "lots"); err == nil {
		t.Error("goals set should reject a non-numeric value")
	}
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t)

	src := filepath.Join(env.dir, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(src); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	assertContains(t, env.mustRun("template", "create", "starter", "--description", "go starter"), "Template 'starter' created")

	_, stderr, err := env.run("template", "create", "starter")
	if err != nil {
		t.Fatalf("duplicate template should be a warning: %v", err)
	}
	assertContains(t, stderr, "already exists")

	target := filepath.Join(env.dir, "new")
	assertContains(t, env.mustRun("template", "use", "starter", target), "Template 'starter' applied")
	if _, err := os.Stat(filepath.Join(target, "main.go")); err != nil {
		t.Errorf("template use did not write main.go: %v", err)
	}

	_, stderr, err = env.run("template", "use", "missing", target)
	if err != nil {
		t.Fatalf("unknown template should be a warning: %v", err)
	}
	assertContains(t, stderr, "not found")

	assertContains(t, env.mustRun("template", "list"), "go starter")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("start", "api")
	env.clock.Advance(10 * time.Minute)
	env.mustRun("stop")

	out := env.mustRun("export", "csv", "--output", "-")
	assertContains(t, out, "project_name,start_time")
	assertContains(t, out, "api,")

	out = env.mustRun("export", "yaml", "--output", env.dir)
	want := filepath.Join(env.dir, export.FileName(export.FormatYAML, env.clock.Now()))
	assertContains(t, out, want)
	if _, err := os.Stat(want); err != nil {
		t.Errorf("export file not written: %v", err)
	}

	if _, _, err := env.run("export", "xml"); err == nil {
		t.Error("export should reject unknown formats")
	}
}

func TestHoursToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "4", want: 240},
		{in: "1.5", want: 90},
		{in: "0.25", want: 15},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "25", wantErr: true},
		{in: "two", wantErr: true},
	}

	for _, tt := range tests {
		got, err := hoursToMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("hoursToMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("hoursToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := resolveDays(0, 7); got != 7 {
		t.Errorf("resolveDays(0, 7) = %d", got)
	}
	if got := resolveDays(30, 7); got != 30 {
		t.Errorf("resolveDays(30, 7) = %d", got)
	}
	if got := pluralDays(1); got != "1 day" {
		t.Errorf("pluralDays(1) = %q", got)
	}
	if got := pluralDays(3); got != "3 days" {
		t.Errorf("pluralDays(3) = %q", got)
	}

	got := filterPrefix([]string{"api", "app", "web"}, "ap")
	if len(got) != 2 || got[0] != "api" || got[1] != "app" {
		t.Errorf("filterPrefix() = %v", got)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	assertContains(t, env.mustRun("version"), "devflow dev")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("config", "show")
	assertContains(t, out, filepath.Join(env.dir, "devflow.db"))

	if _, _, err := env.run("config", "validate"); err == nil {
		t.Error("config validate should fail when no config file exists")
	}

	path := filepath.Join(env.dir, "config", "devflow", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	assertContains(t, env.mustRun("config", "validate"), "is valid")
	assertContains(t, env.mustRun("config", "show"), "fuzzy_finder: auto (")
}

func TestConfigInitAndSet(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(env.dir, "config", "devflow", "config.yaml")
	assertContains(t, env.mustRun("config", "init"), "Wrote "+path)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}

	_, stderr, err := env.run("config", "init")
	if err != nil {
		t.Fatalf("config init on an existing file should warn, got %v", err)
	}
	assertContains(t, stderr, "already exists")
	env.mustRun("config", "init", "--force")

	assertContains(t, env.mustRun("config", "set", "default_days", "14"), "default_days set to 14")
	assertContains(t, env.mustRun("stats"), "Productivity Stats (Last 14 days)")
	assertContains(t, env.mustRun("config", "validate"), "is valid")

	for _, args := range [][]string{
		{"config", "set", "colour", "blue"},
		{"config", "set", "heatmap_weeks", "60"},
		{"config", "set", "vcs_stats", "sometimes"},
		{"config", "set", "log_level", "loud"},
	} {
		if _, _, err := env.run(args...); err == nil {
			t.Errorf("devflow %s should fail", strings.Join(args, " "))
		}
	}
}
