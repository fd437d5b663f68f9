// Package gblog provides the small logging surface the core and its
// tooling log through. Grounded on the teacher repo's internal/mmu and
// internal/io, which both log via github.com/sirupsen/logrus.
package gblog

import "github.com/sirupsen/logrus"

// Logger is the logging surface CPU, Memory and the cartridge loader use.
// Code depends on this interface, never on *logrus.Logger directly, so a
// host can supply its own sink.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, formatted the way the teacher's
// MMU configures its logger: plain text, no timestamps, no color.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return &logger{l: l}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.l.Infof(format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.l.Errorf(format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.l.Debugf(format, args...)
}

// nullLogger discards everything. Used as the default for constructors
// that take no explicit logger, and throughout tests.
type nullLogger struct{}

// NewNullLogger returns a Logger that does nothing.
func NewNullLogger() Logger {
	return &nullLogger{}
}

func (nullLogger) Infof(format string, args ...interface{})  {}
func (nullLogger) Errorf(format string, args ...interface{}) {}
func (nullLogger) Debugf(format string, args ...interface{}) {}
