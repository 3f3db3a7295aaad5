package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the content server and its tools.
// Debug/Info/Warn/Error/Fatal with printf variants, plus "w" variants that
// append key=value pairs for request context (collection, slug, cause).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel maps a level name to a Level; unknown names map to LevelInfo.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects log output; tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func header(lvl string) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(lvl, msg string) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Print(header(lvl) + msg)
}

func Debugf(format string, v ...interface{}) {
	if shouldLog(LevelDebug) {
		output("debug", fmt.Sprintf(format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	if shouldLog(LevelInfo) {
		output("info", fmt.Sprintf(format, v...))
	}
}

func Warnf(format string, v ...interface{}) {
	if shouldLog(LevelWarn) {
		output("warn", fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if shouldLog(LevelError) {
		output("error", fmt.Sprintf(format, v...))
	}
}

func Fatalf(format string, v ...interface{}) {
	output("fatal", fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// Infow logs msg followed by key=value pairs, e.g.
// Infow("listed", "collection", "blogs", "count", 3).
func Infow(msg string, kv ...interface{}) {
	if shouldLog(LevelInfo) {
		output("info", msg+fields(kv))
	}
}

func Warnw(msg string, kv ...interface{}) {
	if shouldLog(LevelWarn) {
		output("warn", msg+fields(kv))
	}
}

func Errorw(msg string, kv ...interface{}) {
	if shouldLog(LevelError) {
		output("error", msg+fields(kv))
	}
}

func fields(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		val := "(missing)"
		if i+1 < len(kv) {
			val = fmt.Sprint(kv[i+1])
		}
		if strings.ContainsAny(val, " \t\n\"") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&b, " %s=%s", key, val)
	}
	return b.String()
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
