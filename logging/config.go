// Package logging wires slog to the console and a weekly rotating log file.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// logFilePrefix names the service's log files, e.g. atcndc-2026-W35.log.
const logFilePrefix = "atcndc-"

// RotatingLogger is an io.Writer that rotates its file weekly and when a
// size limit is reached, and prunes files older than the retention window.
type RotatingLogger struct {
	logDir      string
	currentFile *os.File
	currentWeek string
	retention   time.Duration
	maxFileSize int64
	currentSize atomic.Int64
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingLogger creates a rotating logger with a 100MB file size limit.
func NewRotatingLogger(logDir string, retentionWeeks int) *RotatingLogger {
	return NewRotatingLoggerWithSizeLimit(logDir, retentionWeeks, 100*1024*1024)
}

// NewRotatingLoggerWithSizeLimit creates a rotating logger with a custom
// per-file size limit. A limit of 0 disables size rotation.
func NewRotatingLoggerWithSizeLimit(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// getWeekKey returns the ISO week key in YYYY-Www form.
func getWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// rotate opens the log file for targetWeek. Caller must hold the write lock.
func (rl *RotatingLogger) rotate(targetWeek string) error {
	if rl.currentFile != nil {
		if err := rl.currentFile.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
	}

	sizeRotation := rl.maxFileSize > 0 && rl.currentSize.Load() >= rl.maxFileSize
	fileName, freshFile, err := rl.pickLogFile(targetWeek, sizeRotation)
	if err != nil {
		return err
	}

	logPath := filepath.Join(rl.logDir, fileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rl.currentFile = file
	rl.currentWeek = targetWeek

	if freshFile {
		rl.currentSize.Store(0)
	} else if info, err := os.Stat(logPath); err == nil {
		rl.currentSize.Store(info.Size())
	}

	return nil
}

// pickLogFile chooses the file for the current week: the base weekly file
// while it has room, otherwise the next numbered overflow file.
func (rl *RotatingLogger) pickLogFile(targetWeek string, sizeRotation bool) (string, bool, error) {
	baseName := fmt.Sprintf("%s%s.log", logFilePrefix, targetWeek)
	basePath := filepath.Join(rl.logDir, baseName)

	if !sizeRotation {
		info, err := os.Stat(basePath)
		if err != nil || rl.maxFileSize == 0 || info.Size() < rl.maxFileSize {
			return baseName, false, nil
		}
	}

	highest, lastPath, lastSize := rl.highestOverflowFile(targetWeek)
	if lastPath != "" && lastSize < rl.maxFileSize {
		return filepath.Base(lastPath), false, nil
	}

	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, targetWeek, highest+1), true, nil
}

// highestOverflowFile finds the numbered overflow file with the highest
// sequence for the week, along with its size.
func (rl *RotatingLogger) highestOverflowFile(targetWeek string) (int, string, int64) {
	pattern := fmt.Sprintf("%s%s_??.log", logFilePrefix, targetWeek)
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, pattern))

	var highest int
	var lastPath string
	var lastSize int64
	for _, match := range matches {
		num, size := overflowFileInfo(match)
		if num > highest {
			highest = num
			lastPath = match
			lastSize = size
		}
	}
	return highest, lastPath, lastSize
}

var overflowNameRe = regexp.MustCompile(logFilePrefix + `\d{4}-W\d{2}_(\d{2})\.log$`)

func overflowFileInfo(path string) (int, int64) {
	m := overflowNameRe.FindStringSubmatch(filepath.Base(path))
	if len(m) < 2 {
		return 0, 0
	}
	num, _ := strconv.Atoi(m[1])

	info, err := os.Stat(path)
	if err != nil {
		return num, 0
	}
	return num, info.Size()
}

// Write appends to the current log file, rotating first when the week
// changed or the write would push the file past the size limit.
func (rl *RotatingLogger) Write(p []byte) (n int, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	currentWeek := getWeekKey(time.Now())
	needsRotation := rl.currentWeek != currentWeek
	if rl.maxFileSize > 0 && !needsRotation {
		size := rl.currentSize.Load()
		if size >= rl.maxFileSize || size+int64(len(p)) > rl.maxFileSize {
			needsRotation = true
			// Force the overflow-file path in rotate
			rl.currentSize.Store(rl.maxFileSize)
		}
	}

	if needsRotation {
		if err = rl.rotate(currentWeek); err != nil {
			return 0, err
		}
	}

	if rl.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err = rl.currentFile.Write(p)
	rl.currentSize.Add(int64(n))
	return n, err
}

// cleanupOldLogs removes log files whose modification time is past the
// retention window.
func (rl *RotatingLogger) cleanupOldLogs() error {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	var deleted int

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rl.logDir, name)); err == nil {
				deleted++
			}
		}
	}

	if deleted > 0 {
		// Stdout, not slog: logging about the log files would recurse
		fmt.Printf("Cleaned up %d old log files\n", deleted)
	}

	return nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rl *RotatingLogger) Close() error {
	rl.cancel()

	select {
	case <-rl.cleanupDone:
	case <-time.After(5 * time.Second):
		fmt.Printf("Warning: log cleanup goroutine did not shut down\n")
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.currentFile != nil {
		return rl.currentFile.Close()
	}
	return nil
}

// SetupLogger configures slog to log to both console and a rotating file
// with the default 4-week retention.
func SetupLogger(logDir string) *slog.Logger {
	return SetupLoggerWithRetention(logDir, 4)
}

// SetupLoggerWithRetention configures slog with a custom retention period.
// When the log directory cannot be used the logger degrades to console-only.
func SetupLoggerWithRetention(logDir string, retentionWeeks int) *slog.Logger {
	consoleOnly := func(reason string, err error) *slog.Logger {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		logger.Error(reason, "error", err)
		return logger
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return consoleOnly("Failed to create logs directory", err)
	}

	rl := NewRotatingLogger(logDir, retentionWeeks)

	rl.mu.Lock()
	rotateErr := rl.rotate(getWeekKey(time.Now()))
	rl.mu.Unlock()
	if rotateErr != nil {
		return consoleOnly("Failed to initialize rotating logger", rotateErr)
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		defer close(rl.cleanupDone)

		for {
			select {
			case <-rl.ctx.Done():
				return
			case <-ticker.C:
				if err := rl.cleanupOldLogs(); err != nil {
					slog.Warn("Failed to clean up old logs", "error", err)
				}
			}
		}
	}()

	// Console gets text for humans, the file gets JSON for ingestion
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	file := slog.NewJSONHandler(rl, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&teeHandler{handlers: []slog.Handler{console, file}})
}

// teeHandler fans a record out to every underlying handler.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: handlers}
}
