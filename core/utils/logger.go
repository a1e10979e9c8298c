package utils

import (
	"log"
	"os"
	"sync/atomic"
)

type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a thin leveled wrapper over the stdlib logger. It is shared by
// every service and store; a nil *Logger is safe to call.
type Logger struct {
	level int32
	out   *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		level: int32(LevelInfo),
		out:   log.New(os.Stderr, "", log.LstdFlags|log.LUTC),
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	atomic.StoreInt32(&l.level, int32(level))
}

func (l *Logger) enabled(level LogLevel) bool {
	return l != nil && level >= LogLevel(atomic.LoadInt32(&l.level))
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.enabled(LevelDebug) {
		l.out.Printf("DEBUG "+format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.out.Printf("INFO "+format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if l.enabled(LevelWarn) {
		l.out.Printf("WARN "+format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...any) {
	if l.enabled(LevelError) {
		l.out.Printf("ERROR "+format, args...)
	}
}
