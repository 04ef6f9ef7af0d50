package container

import "log"

// Logger is the minimal logging capability this module needs: Tagged's
// per-item skips, which are logged rather than failed (§4.5). The compiler
// does not log. Satisfied by the standard library's *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// defaultLogger returns the standard library logger, matching the teacher's
// own use of the bare log package (framework/app/kernel.go).
func defaultLogger() Logger { return log.Default() }
