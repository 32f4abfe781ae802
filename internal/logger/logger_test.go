package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.ParseStarted("a.org")
	l.ParseCompleted("a.org", 3, time.Millisecond)
	l.ParseFailed("b.org", errors.New("malformed drawer"))
	l.FileWritten("a.org", "formatted")
	l.Skipped("c.org", "unchanged")
	l.IndexUpdated(1, 2, 0, time.Second)
	l.ConfigLoaded("/tmp/config.yaml", 8, 4)
	l.Tangled("main.go", 2, true)

	out := buf.String()
	for _, want := range []string{
		"parse started", "parse completed", "nodes=3",
		"parse failed", "malformed drawer",
		"file written", "reason=formatted",
		"file skipped", "index updated", "updated=1",
		"config loaded", "tab_width=8",
		"tangled", "dry_run=true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.ParseStarted("a.org")
	if buf.Len() != 0 {
		t.Errorf("debug events should be hidden at the default level, got %q", buf.String())
	}
	l.FileWritten("a.org", "formatted")
	if !strings.Contains(buf.String(), "file written") {
		t.Errorf("info events should be written, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgtree.log")
	l, cleanup, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.FileWritten("a.org", "formatted")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "file written") {
		t.Errorf("log file missing entry: %q", data)
	}
}
