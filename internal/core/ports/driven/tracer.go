package driven

import "time"

// Tracer receives pipeline events for observability. It is strictly
// best-effort: implementations must not block and callers ignore any
// failure inside the tracer. A nil Tracer disables tracing.
type Tracer interface {
	// Event records a single pipeline event.
	Event(e TraceEvent)
}

// TraceEventKind identifies what a trace event describes.
type TraceEventKind string

// Trace event kinds emitted by the pipeline.
const (
	// TraceEmbedding covers embedding calls (passages and queries).
	TraceEmbedding TraceEventKind = "embedding"

	// TraceGeneration covers LLM calls (rewrite and synthesis).
	TraceGeneration TraceEventKind = "generation"

	// TraceIngestion covers document ingestion runs.
	TraceIngestion TraceEventKind = "ingestion"

	// TraceRetrieval covers similarity searches.
	TraceRetrieval TraceEventKind = "retrieval"
)

// TraceEvent describes one pipeline operation.
type TraceEvent struct {
	// Kind is the event category.
	Kind TraceEventKind

	// Name labels the specific operation (e.g., "question_rewrite").
	Name string

	// SessionID is the session the operation ran in.
	SessionID string

	// Duration is how long the operation took.
	Duration time.Duration

	// Err is the operation's failure, if any.
	Err error

	// Detail carries operation-specific values (token counts, k, etc).
	Detail map[string]any
}
