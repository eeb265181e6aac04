package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.LevelDebug - 4
	LevelNone  = slog.LevelError + 100
)

var (
	mu      sync.Mutex
	current *fileWriter
	sigs    chan os.Signal
)

// fileWriter appends to a log file that can be reopened in place after it has
// been moved away by a rotation tool.
type fileWriter struct {
	mu   sync.Mutex
	path string
	fh   *os.File
}

func openFileWriter(path string) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	return &fileWriter{path: path, fh: fh}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Write(p)
}

func (w *fileWriter) reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not reopen log file: %w", err)
	}
	_ = w.fh.Close()
	w.fh = fh
	return nil
}

func (w *fileWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Close()
}

// Init installs the default slog logger. Output goes to stderr unless logFile
// is set; if the file cannot be opened the error is returned and stderr is used.
func Init(logLevel string, logFile string, json bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	var out io.Writer = os.Stderr
	var err error
	if logFile != "" {
		var w *fileWriter
		w, err = openFileWriter(logFile)
		if err == nil {
			current = w
			out = w
			setupLogRotation()
		}
	}

	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(logLevel),
	}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(out, options)
	} else {
		handler = slog.NewTextHandler(out, options)
	}
	slog.SetDefault(slog.New(handler))
	return err
}

// ParseLevel maps trace, debug, info, warn, error and none onto slog levels.
// Anything else means error.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "none":
		return LevelNone
	default:
		return slog.LevelError
	}
}

// Reopen reopens the current log file, as on SIGHUP.
func Reopen() error {
	mu.Lock()
	w := current
	mu.Unlock()
	if w == nil {
		return nil
	}
	return w.reopen()
}

func setupLogRotation() {
	/*
	 * when logging to a file listen for SIGHUP on log file rotation
	 * mv icfp.log icfp.bak && kill -HUP <pid>
	 */
	sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func(ch chan os.Signal) {
		for range ch {
			if err := Reopen(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}(sigs)
}

// Close flushes and closes the log file, if any, and points the default
// logger back at stderr.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	}
	closeLocked()
}

func closeLocked() {
	if sigs != nil {
		signal.Stop(sigs)
		close(sigs)
		sigs = nil
	}
	if current != nil {
		_ = current.close()
		current = nil
	}
}
