package utils

import "github.com/sirupsen/logrus"

// Logger is trace logger passed into long running processing.
// nil Logger discards everything.
type Logger struct {
	logrus.FieldLogger
}

func NewLogger(l logrus.FieldLogger) *Logger {
	return &Logger{FieldLogger: l}
}

func (l *Logger) enabled() bool {
	return l != nil && l.FieldLogger != nil
}

func (l *Logger) Println(a ...interface{}) {
	if l.enabled() {
		l.FieldLogger.Debugln(a...)
	}
}

func (l *Logger) Printf(format string, a ...interface{}) {
	if l.enabled() {
		l.FieldLogger.Debugf(format, a...)
	}
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	if !l.enabled() {
		return l
	}
	return &Logger{FieldLogger: l.FieldLogger.WithField(key, value)}
}
