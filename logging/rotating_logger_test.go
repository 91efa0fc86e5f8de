package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetWeekKeyFormat(t *testing.T) {
	key := getWeekKey(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	if key != "2026-W02" {
		t.Errorf("Expected 2026-W02, got %s", key)
	}
}

func TestRotatingLoggerWritesToWeeklyFile(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLogger(tempDir, 2)
	defer closeQuietly(rl)

	msg := []byte("test log line\n")
	n, err := rl.Write(msg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != len(msg) {
		t.Errorf("Expected %d bytes written, got %d", len(msg), n)
	}

	expected := filepath.Join(tempDir, logFilePrefix+getWeekKey(time.Now())+".log")
	content, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Expected weekly log file at %s: %v", expected, err)
	}
	if !strings.Contains(string(content), "test log line") {
		t.Error("Expected the written line in the log file")
	}
}

func TestRotatingLoggerSizeRotation(t *testing.T) {
	tempDir := t.TempDir()
	// Tiny size limit so the second write forces a numbered file
	rl := NewRotatingLoggerWithSizeLimit(tempDir, 2, 32)
	defer closeQuietly(rl)

	line := []byte(strings.Repeat("x", 30) + "\n")
	if _, err := rl.Write(line); err != nil {
		t.Fatalf("Expected no error on first write, got %v", err)
	}
	if _, err := rl.Write(line); err != nil {
		t.Fatalf("Expected no error on second write, got %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "atcndc-*_01.log"))
	if len(matches) != 1 {
		t.Errorf("Expected one size-rotated log file, got %d", len(matches))
	}
}

func TestCleanupOldLogs(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLogger(tempDir, 1)
	defer closeQuietly(rl)

	oldFile := filepath.Join(tempDir, "atcndc-2020-W01.log")
	if err := os.WriteFile(oldFile, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	oldTime := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Expected the stale log file to be removed")
	}
}

func closeQuietly(rl *RotatingLogger) {
	// Close waits briefly for the cleanup goroutine, which only runs when
	// the logger was started through SetupLogger
	close(rl.cleanupDone)
	_ = rl.Close()
}
