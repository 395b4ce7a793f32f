// Package logging provides the small leveled logger this module uses to
// pair every silently-tolerated protocol quirk (a dropped SET fragment,
// a truncated name, an advisory hook error) with an observable trace,
// instead of papering over it.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level selects which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger wraps the standard library logger with a minimum level.
type Logger struct {
	mu     sync.Mutex
	std    *log.Logger
	level  Level
}

// New returns a Logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{std: log.New(w, "", log.LstdFlags), level: level}
}

var (
	defaultMu  sync.RWMutex
	defaultLog *Logger
)

// Default returns the package-wide logger, creating one at LevelInfo on
// first use.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLog != nil {
		defer defaultMu.RUnlock()
		return defaultLog
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLog == nil {
		defaultLog = New(os.Stderr, LevelInfo)
	}
	return defaultLog
}

// SetDefault replaces the package-wide logger, e.g. to silence it in
// tests or redirect it to a task's own console.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLog = l
}

func (l *Logger) emit(level Level, prefix, format string, args []any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.std.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.emit(LevelDebug, "[DEBUG]", format, args) }
func (l *Logger) Infof(format string, args ...any)  { l.emit(LevelInfo, "[INFO]", format, args) }
func (l *Logger) Warnf(format string, args ...any)  { l.emit(LevelWarn, "[WARN]", format, args) }
func (l *Logger) Errorf(format string, args ...any) { l.emit(LevelError, "[ERROR]", format, args) }
