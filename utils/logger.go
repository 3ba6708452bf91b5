package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled logging throughout the application. Every event is
// written to the console and, when a log file is configured, to that file
// with identical content.
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// NewLogger creates a Logger writing to stdout only.
func NewLogger() *Logger {
	return newLogger(zapcore.AddSync(os.Stdout), nil)
}

// NewFileLogger creates a Logger writing to stdout and to the file at path.
// The file is appended to and its directory created if needed.
func NewFileLogger(path string) (*Logger, error) {
	if path == "" {
		return NewLogger(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("logger: open %q: %w", path, err)
	}
	return newLogger(zapcore.AddSync(os.Stdout), f), nil
}

// NewWriterLogger creates a Logger writing to w. Used by tests to capture
// output.
func NewWriterLogger(w io.Writer) *Logger {
	return newLogger(zapcore.AddSync(w), nil)
}

func newLogger(console zapcore.WriteSyncer, file *os.File) *Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})

	cores := []zapcore.Core{zapcore.NewCore(enc, console, zapcore.DebugLevel)}
	if file != nil {
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(file), zapcore.DebugLevel))
	}

	return &Logger{
		sugar: zap.New(zapcore.NewTee(cores...)).Sugar(),
		file:  file,
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
