package logger

import "context"

// nopLogger discards everything. Components fall back to it when they are
// built before Init, which keeps library packages usable from tests and tools.
type nopLogger struct{}

// Nop returns a Logger that drops all entries.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Fatal(context.Context, string, ...Field) {}
func (n nopLogger) Named(string) Logger                   { return n }
func (n nopLogger) With(...Field) Logger                  { return n }

// OrGlobal returns l when set, the global logger when initialized, and Nop otherwise.
func OrGlobal(l Logger) Logger {
	if l != nil {
		return l
	}
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return Nop()
}
