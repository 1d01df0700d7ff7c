// Package trace provides a logging Tracer that records pipeline events
// through the application logger. Events only appear in verbose mode.
package trace

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure LogTracer implements the interface.
var _ driven.Tracer = (*LogTracer)(nil)

// LogTracer writes trace events to the debug log.
type LogTracer struct{}

// NewLogTracer creates a tracer backed by the application logger.
func NewLogTracer() *LogTracer {
	return &LogTracer{}
}

// Event records one pipeline event.
func (t *LogTracer) Event(e driven.TraceEvent) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s session=%s took=%s", e.Kind, e.Name, e.SessionID, e.Duration.Round(timeResolution(e)))
	if e.Err != nil {
		fmt.Fprintf(&sb, " err=%q", e.Err)
	}
	for _, k := range sortedKeys(e.Detail) {
		fmt.Fprintf(&sb, " %s=%v", k, e.Detail[k])
	}
	logger.Debug("%s", sb.String())
}

// timeResolution keeps short durations readable without drowning slow
// ones in digits.
func timeResolution(e driven.TraceEvent) time.Duration {
	if e.Duration < time.Second {
		return time.Microsecond
	}
	return time.Millisecond
}

// sortedKeys returns detail keys in stable order.
func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
