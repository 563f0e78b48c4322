// Package invariant reports broken internal contracts. Builds with the
// "debug" tag panic on the first violation; release builds log a warning and
// let the caller reject the operation.
package invariant

import (
	"fmt"

	"github.com/1broseidon/surfshell/internal/logging"
)

// Check reports a violation when ok is false and returns ok, so call sites
// can write `if !invariant.Check(...) { return false }`.
func Check(ok bool, format string, args ...any) bool {
	if ok {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if fatal {
		panic("invariant violated: " + msg)
	}
	logging.Logger().Warn("invariant violated", "detail", msg)
	return false
}

// Fatal reports whether violations panic in this build.
func Fatal() bool { return fatal }
