// Package logging provides the leveled console logger used across the tool.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota // Always shown
	LevelWarn               // Always shown
	LevelInfo               // Normal mode
	LevelDebug              // Verbose mode only
)

// Logger provides leveled logging with color support
type Logger struct {
	level     Level
	useColors bool
	errorLog  *log.Logger
	warnLog   *log.Logger
	infoLog   *log.Logger
	debugLog  *log.Logger
}

// New creates a logger for the console.
func New(verbose bool) *Logger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	return &Logger{
		level:     level,
		useColors: isTerminal(),
		errorLog:  log.New(os.Stderr, "", 0),
		warnLog:   log.New(os.Stdout, "", 0),
		infoLog:   log.New(os.Stdout, "", 0),
		debugLog:  log.New(os.Stdout, "", 0),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	l := New(false)
	l.level = LevelError
	l.SetOutput(io.Discard)
	return l
}

// SetOutput sets the output for all levels and disables colors.
func (l *Logger) SetOutput(w io.Writer) {
	l.useColors = false
	l.errorLog.SetOutput(w)
	l.warnLog.SetOutput(w)
	l.infoLog.SetOutput(w)
	l.debugLog.SetOutput(w)
}

// Tee duplicates every level to w in addition to the current outputs.
// Timestamps are added to the copy.
func (l *Logger) Tee(w io.Writer) {
	for _, lg := range []*log.Logger{l.errorLog, l.warnLog, l.infoLog, l.debugLog} {
		lg.SetOutput(io.MultiWriter(lg.Writer(), &stampWriter{w: w}))
	}
}

func (l *Logger) Verbose() bool { return l.level >= LevelDebug }

func (l *Logger) colorize(color, text string) string {
	if !l.useColors {
		return text
	}
	return color + text + ColorReset
}

// Info logs informational messages (visible in normal mode)
func (l *Logger) Info(format string, args ...any) {
	if l.level >= LevelInfo {
		l.infoLog.Println(fmt.Sprintf(format, args...))
	}
}

// Success logs success with a green checkmark
func (l *Logger) Success(format string, args ...any) {
	if l.level >= LevelInfo {
		icon := l.colorize(ColorGreen, "✓")
		l.infoLog.Printf("%s %s", icon, fmt.Sprintf(format, args...))
	}
}

// Warn logs warnings (always visible)
func (l *Logger) Warn(format string, args ...any) {
	if l.level >= LevelWarn {
		icon := l.colorize(ColorYellow, "⚠")
		l.warnLog.Printf("%s %s", icon, fmt.Sprintf(format, args...))
	}
}

// Error logs errors (always visible)
func (l *Logger) Error(format string, args ...any) {
	if l.level >= LevelError {
		icon := l.colorize(ColorRed, "✗")
		l.errorLog.Printf("%s %s", icon, fmt.Sprintf(format, args...))
	}
}

// Debug logs debug information (verbose mode only)
func (l *Logger) Debug(format string, args ...any) {
	if l.level >= LevelDebug {
		l.debugLog.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
	}
}

// DebugHTTP logs HTTP requests and responses (verbose mode only)
func (l *Logger) DebugHTTP(format string, args ...any) {
	if l.level >= LevelDebug {
		l.debugLog.Printf("[HTTP] %s", fmt.Sprintf(format, args...))
	}
}

// Stage logs a high-level stage (e.g., "Reconciling collection...")
func (l *Logger) Stage(format string, args ...any) {
	if l.level >= LevelInfo {
		l.infoLog.Println(l.colorize(ColorBold+ColorCyan, fmt.Sprintf(format, args...)))
	}
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

type ctxKey struct{}

var fallback = New(false)

// WithContext stores the logger in ctx.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx or a default console logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}

func Info(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Info(format, args...)
}

func Success(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Success(format, args...)
}

func Warn(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warn(format, args...)
}

func Error(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Error(format, args...)
}

func Debug(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debug(format, args...)
}

func DebugHTTP(ctx context.Context, format string, args ...any) {
	FromContext(ctx).DebugHTTP(format, args...)
}

func Stage(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Stage(format, args...)
}
