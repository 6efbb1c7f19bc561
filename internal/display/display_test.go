package display

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestPrintMethods(t *testing.T) {
	tests := []struct {
		name  string
		write func(p Printer)
		want  string
	}{
		{"Print", func(p Printer) { p.Print("hello", " ", "world") }, "hello world"},
		{"Println", func(p Printer) { p.Println("hello world") }, "hello world\n"},
		{"Printf", func(p Printer) { p.Printf("hello %s", "world") }, "hello world"},
		{"Success", func(p Printer) { p.Success("session started") }, "✓ session started\n"},
		{"Error", func(p Printer) { p.Error("store unavailable") }, "✗ store unavailable\n"},
		{"Warning", func(p Printer) { p.Warning("no active session") }, "⚠ no active session\n"},
		{"Info", func(p Printer) { p.Info("no sessions yet") }, "ℹ no sessions yet\n"},
		{"Successf", func(p Printer) { p.Successf("stopped %s", "api") }, "✓ stopped api\n"},
		{"Errorf", func(p Printer) { p.Errorf("code %d", 2) }, "✗ code 2\n"},
		{"Warningf", func(p Printer) { p.Warningf("%s exists", "web") }, "⚠ web exists\n"},
		{"Infof", func(p Printer) { p.Infof("%d files", 3) }, "ℹ 3 files\n"},
		{"Header", func(p Printer) { p.Header("Weekly Summary") }, "Weekly Summary\n==============\n"},
		{"Field", func(p Printer) { p.Field("Duration", "5m 0s") }, "   Duration: 5m 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.write(New(buf))
			if buf.String() != tt.want {
				t.Errorf("%s output = %q, want %q", tt.name, buf.String(), tt.want)
			}
		})
	}
}

func TestTextStyles(t *testing.T) {
	p := New(&bytes.Buffer{})

	styles := map[string]func(string) string{
		"Bold":        p.Bold,
		"Faint":       p.Faint,
		"SuccessText": p.SuccessText,
		"ErrorText":   p.ErrorText,
		"WarningText": p.WarningText,
		"InfoText":    p.InfoText,
	}

	for name, style := range styles {
		if got := style("streak"); !strings.Contains(got, "streak") {
			t.Errorf("%s() = %q, want to contain text", name, got)
		}
	}
}

func TestWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	if New(buf).Writer() != buf {
		t.Error("Writer() should return the destination")
	}
}

func TestNewStderr(t *testing.T) {
	if NewStderr().Writer() != os.Stderr {
		t.Error("NewStderr() should write to os.Stderr")
	}
}
