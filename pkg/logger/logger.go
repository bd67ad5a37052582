package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger shared by the API server and the agentctl CLI.
// - zerolog backend, JSON by default, console output with Configure(pretty)
// - Debug/Info/Warn/Error/Fatal variants and Init(level)

var (
	mu     sync.RWMutex
	out    = &switchWriter{w: os.Stdout}
	logger = zerolog.New(out).With().Timestamp().Str("service", "agentdeck").Logger()
	level  = zerolog.InfoLevel
)

// switchWriter lets Configure redirect every logger, including component
// loggers handed out by With before the call.
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// Init sets the log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	default:
		level = zerolog.InfoLevel
	}
	// component loggers check the global level on every event
	zerolog.SetGlobalLevel(level)
}

// Configure replaces the output writer. pretty switches to zerolog's console format.
func Configure(w io.Writer, pretty bool) {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	out.set(w)
}

func shouldLog(l zerolog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func logf(l zerolog.Level, format string, v ...interface{}) {
	if !shouldLog(l) {
		return
	}
	lg := current()
	lg.WithLevel(l).Msgf(format, v...)
}

func Debugf(format string, v ...interface{}) { logf(zerolog.DebugLevel, format, v...) }
func Infof(format string, v ...interface{})  { logf(zerolog.InfoLevel, format, v...) }
func Warnf(format string, v ...interface{})  { logf(zerolog.WarnLevel, format, v...) }
func Errorf(format string, v ...interface{}) { logf(zerolog.ErrorLevel, format, v...) }

func Fatalf(format string, v ...interface{}) {
	lg := current()
	lg.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	logf(zerolog.InfoLevel, "%s", strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// With returns a structured sub-logger tagged with the given component. It
// follows later Init and Configure calls.
func With(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case zerolog.DebugLevel:
		return "debug"
	case zerolog.WarnLevel:
		return "warn"
	case zerolog.ErrorLevel:
		return "error"
	case zerolog.FatalLevel:
		return "fatal"
	}
	return "info"
}
