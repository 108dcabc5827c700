package v8ref

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the package-level default logger, in the style yaoapp/gou wires
// its v8 runtime: events are logged structurally rather than with
// fmt.Print. This package logs at Warn when an ignored-mode task fails or
// cannot be scheduled; isolate lifecycle, task submission and timeouts are
// not logged. Embedding hosts may replace it
// wholesale, or pass a scoped override through a concrete Isolate
// implementation's own construction options (e.g.
// internal/nativeengine.IsolateOptions.Logger) and resolve it against this
// default with LoggerOrDefault.
var Logger hclog.Logger = hclog.New(&hclog.LoggerOptions{
	Name:   "v8ref",
	Level:  hclog.Warn,
	Output: os.Stderr,
})

// LoggerOrDefault returns l, or Logger if l is nil. A host Isolate
// implementation that accepts a construction-time logger override calls
// this to fall back to the package default.
func LoggerOrDefault(l hclog.Logger) hclog.Logger {
	if l != nil {
		return l
	}
	return Logger
}
