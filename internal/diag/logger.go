package diag

import "log"

// Logf logs diagnostic events as they are emitted. It defaults to
// log.Printf; tests and embedding code can redirect or mute it via
// SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil f installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
