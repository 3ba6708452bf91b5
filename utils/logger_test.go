package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var linePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} (INFO|WARN|ERROR|DEBUG) `)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Info("authenticated as %s", "alice")
	l.Error("search failed: %v", "quota")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !linePrefix.MatchString(line) {
			t.Errorf("line %q lacks timestamp/level prefix", line)
		}
	}
	if !strings.HasSuffix(lines[0], "authenticated as alice") {
		t.Errorf("unexpected info line %q", lines[0])
	}
}

func TestFileLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scraper.log")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("run %d started", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !linePrefix.MatchString(line) || !strings.HasSuffix(line, "run 1 started") {
		t.Errorf("unexpected log file content %q", line)
	}
}
