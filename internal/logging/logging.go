// Package logging provides console plus per-run file logging.
// The file target is optional; without Init only the console is used.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	mu      sync.Mutex
	file    *os.File
	console *log.Logger
	fileLog *log.Logger
}

var (
	global     *Logger
	globalOnce sync.Once
)

// Init creates the global logger writing to logDir. Safe to call once;
// later calls are no-ops.
func Init(logDir string) error {
	var err error
	globalOnce.Do(func() {
		global, err = newLogger(logDir)
	})
	return err
}

// Get returns the global logger, creating a console-only one if Init was
// never called.
func Get() *Logger {
	globalOnce.Do(func() {
		global = &Logger{console: log.New(os.Stderr, "", log.LstdFlags)}
	})
	return global
}

func newLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02_15-04-05"))
	f, err := os.Create(filepath.Join(logDir, name))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return &Logger{
		file:    f,
		console: log.New(os.Stderr, "", log.LstdFlags),
		fileLog: log.New(f, "", log.LstdFlags|log.Lmicroseconds),
	}, nil
}

func (l *Logger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	l.console.Print(msg)
	if l.fileLog != nil {
		l.fileLog.Print(msg)
	}
}

func (l *Logger) Infof(format string, args ...interface{})  { l.write("INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.write("WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.write("ERROR", format, args...) }

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level helpers on the global logger.

func Infof(format string, args ...interface{})  { Get().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Get().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Get().Errorf(format, args...) }
