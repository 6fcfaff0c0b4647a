/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package mqlog provides a small leveled logger for reporting non-fatal
// conditions. No other package of this module imports it.
package mqlog

import (
	"fmt"
	"log"
	"strings"
)

// Level is a logging level.
type Level string

// Log levels, low to high verbosity.
const (
	Error Level = "error"
	Info  Level = "info"
	Debug Level = "debug"
)

// Logger is the logging interface engine components depend on.
type Logger interface {
	LogError(m ...interface{})
	LogInfo(m ...interface{})
	LogDebug(m ...interface{})
}

// LevelLogger wraps a Logger and filters by level.
type LevelLogger struct {
	logger Logger
	level  Level
}

// NewLevelLogger wraps logger with level-based filtering.
func NewLevelLogger(logger Logger, level string) (*LevelLogger, error) {
	l := Level(strings.ToLower(level))
	if l != Debug && l != Info && l != Error {
		return nil, fmt.Errorf("invalid log level: %v", level)
	}
	return &LevelLogger{logger, l}, nil
}

// Level returns the current log level.
func (ll *LevelLogger) Level() Level { return ll.level }

// LogError logs an error-level message unconditionally.
func (ll *LevelLogger) LogError(m ...interface{}) { ll.logger.LogError(m...) }

// LogInfo logs an info-level message when the level allows it.
func (ll *LevelLogger) LogInfo(m ...interface{}) {
	if ll.level == Info || ll.level == Debug {
		ll.logger.LogInfo(m...)
	}
}

// LogDebug logs a debug-level message when the level allows it.
func (ll *LevelLogger) LogDebug(m ...interface{}) {
	if ll.level == Debug {
		ll.logger.LogDebug(m...)
	}
}

// StdLogger writes messages to the standard log package.
type StdLogger struct {
	stdlog func(v ...interface{})
}

// NewStdLogger returns a logger that writes through log.Print.
func NewStdLogger() *StdLogger {
	return &StdLogger{log.Print}
}

func (sl *StdLogger) LogError(m ...interface{}) {
	sl.stdlog(fmt.Sprintf("error: %v", fmt.Sprint(m...)))
}

func (sl *StdLogger) LogInfo(m ...interface{}) {
	sl.stdlog(fmt.Sprint(m...))
}

func (sl *StdLogger) LogDebug(m ...interface{}) {
	sl.stdlog(fmt.Sprintf("debug: %v", fmt.Sprint(m...)))
}

// MemoryLogger collects messages in memory, useful for tests and for the
// REPL/driver layers (out of core scope) to display recent log lines.
type MemoryLogger struct {
	lines []string
	cap   int
}

// NewMemoryLogger returns a logger that keeps up to size recent lines.
func NewMemoryLogger(size int) *MemoryLogger {
	return &MemoryLogger{cap: size}
}

func (ml *MemoryLogger) add(line string) {
	ml.lines = append(ml.lines, line)
	if ml.cap > 0 && len(ml.lines) > ml.cap {
		ml.lines = ml.lines[len(ml.lines)-ml.cap:]
	}
}

func (ml *MemoryLogger) LogError(m ...interface{}) { ml.add(fmt.Sprintf("error: %v", fmt.Sprint(m...))) }
func (ml *MemoryLogger) LogInfo(m ...interface{})  { ml.add(fmt.Sprint(m...)) }
func (ml *MemoryLogger) LogDebug(m ...interface{}) { ml.add(fmt.Sprintf("debug: %v", fmt.Sprint(m...))) }

// Slice returns the buffered log lines, oldest first.
func (ml *MemoryLogger) Slice() []string { return append([]string(nil), ml.lines...) }

// Reset clears the buffered log lines.
func (ml *MemoryLogger) Reset() { ml.lines = nil }

// NullLogger discards every message. Used as the default in tests.
type NullLogger struct{}

// NewNullLogger returns a logger that discards everything.
func NewNullLogger() *NullLogger { return &NullLogger{} }

func (nl *NullLogger) LogError(m ...interface{}) {}
func (nl *NullLogger) LogInfo(m ...interface{})  {}
func (nl *NullLogger) LogDebug(m ...interface{}) {}
