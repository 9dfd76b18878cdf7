// Package progress is the one-way diagnostic channel the pipeline
// reports milestones and failures through. Notifications never block
// and never fail the caller.
package progress

import "github.com/qiangli/deepsearch/internal/log"

type Notifier interface {
	Info(format string, a ...any)
	Warn(format string, a ...any)
	Error(format string, a ...any)
}

type logNotifier struct{}

func (logNotifier) Info(format string, a ...any) {
	log.Infof(format+"\n", a...)
}

func (logNotifier) Warn(format string, a ...any) {
	log.Infof("warning: "+format+"\n", a...)
}

func (logNotifier) Error(format string, a ...any) {
	log.Errorf(format+"\n", a...)
}

// Log returns a notifier backed by the process logger.
func Log() Notifier {
	return logNotifier{}
}

type discard struct{}

func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}

// Discard returns a notifier that drops everything.
func Discard() Notifier {
	return discard{}
}
