//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/export"
	"github.com/benoctopus/devflow/internal/template"
	"gopkg.in/yaml.v3"
)

// TestTemplateRoundTrip tests capturing a directory and restoring it elsewhere
func TestTemplateRoundTrip(t *testing.T) {
	env := SetupTestEnvironment(t, monday)

	src := filepath.Join(env.Dir, "starter")
	env.WriteFile(filepath.Join(src, "main.go"), "package main\n")
	env.WriteFile(filepath.Join(src, "internal", "app", "app.go"), "package app\n")
	env.WriteFile(filepath.Join(src, ".git", "HEAD"), "ref: refs/heads/main\n")
	env.WriteFile(filepath.Join(src, "debug.log"), "noise\n")
	env.WriteFile(filepath.Join(src, "logo.png"), string([]byte{0x89, 'P', 'N', 'G', 0xff, 0xfe}))

	created, err := template.Create(env.DB, "starter", "go service", src)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(created.Files) != 3 {
		t.Errorf("captured %d files, want 3: %v", len(created.Files), created.Files)
	}

	target := filepath.Join(env.Dir, "newapp")
	result, err := template.Apply(env.DB, "starter", target)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(result.Created) != 2 || len(result.Skipped) != 1 {
		t.Errorf("Apply() = %+v, want 2 created and 1 skipped", result)
	}

	content, err := os.ReadFile(filepath.Join(target, "internal", "app", "app.go"))
	if err != nil {
		t.Fatalf("nested file not restored: %v", err)
	}
	if string(content) != "package app\n" {
		t.Errorf("app.go = %q", content)
	}
	if _, err := os.Stat(filepath.Join(target, ".git")); !os.IsNotExist(err) {
		t.Error(".git should not be restored")
	}
}

// TestExportEveryFormat tests that one history exports consistently as JSON, YAML and CSV
func TestExportEveryFormat(t *testing.T) {
	env := SetupTestEnvironment(t, monday)

	manager := env.NewManager()
	if _, err := manager.Start("api", ""); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err := manager.AddNote("wired the exporter"); err != nil {
		t.Fatalf("AddNote() failed: %v", err)
	}
	env.Clock.Advance(2 * time.Hour)
	if _, err := manager.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	env.NextDay(9)
	env.Session("web", 20*time.Minute)

	if err := db.SetGoal(env.DB, newDailyGoal(env.Metrics().Today(), 60)); err != nil {
		t.Fatalf("SetGoal() failed: %v", err)
	}

	data, err := export.Load(env.DB)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(data.Sessions) != 2 || data.Sessions[0].ProjectName != "web" {
		t.Fatalf("Sessions = %+v, want web then api", data.Sessions)
	}
	if len(data.Activity) != 2 || len(data.Goals) != 1 {
		t.Errorf("Activity = %+v, Goals = %+v", data.Activity, data.Goals)
	}

	var jsonOut bytes.Buffer
	if err := export.Write(&jsonOut, export.FormatJSON, data); err != nil {
		t.Fatalf("Write(json) failed: %v", err)
	}
	var fromJSON export.Dataset
	if err := json.Unmarshal(jsonOut.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid json export: %v", err)
	}
	if fromJSON.Sessions[1].Duration != 7200 {
		t.Errorf("api duration = %d, want 7200", fromJSON.Sessions[1].Duration)
	}
	if len(fromJSON.Sessions[1].Notes) != 1 || fromJSON.Sessions[1].Notes[0] != "wired the exporter" {
		t.Errorf("api notes = %v", fromJSON.Sessions[1].Notes)
	}

	path := filepath.Join(env.Dir, export.FileName(export.FormatYAML, env.Clock.Now()))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	if err := export.Write(f, export.FormatYAML, data); err != nil {
		t.Fatalf("Write(yaml) failed: %v", err)
	}
	f.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var fromYAML export.Dataset
	if err := yaml.Unmarshal(raw, &fromYAML); err != nil {
		t.Fatalf("invalid yaml export: %v", err)
	}
	if len(fromYAML.Sessions) != 2 || fromYAML.Goals[0].TargetValue != 60 {
		t.Errorf("yaml export = %+v", fromYAML)
	}

	var csvOut bytes.Buffer
	if err := export.Write(&csvOut, export.FormatCSV, data); err != nil {
		t.Fatalf("Write(csv) failed: %v", err)
	}
	records, err := csv.NewReader(&csvOut).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv export: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("csv has %d records, want header plus 2 sessions", len(records))
	}
}
