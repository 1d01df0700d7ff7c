// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentLoader: Extracts text from an uploaded file
//   - LoaderRegistry: Selects the appropriate loader by format
//   - Splitter: Splits document text into retrievable passages
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Language model generation, including streaming
//   - VectorIndex: Session-scoped similarity search over embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-customisable prompt templates. Without it,
//     services fall back to embedded defaults.
//   - Tracer: Best-effort observability sink. Failures in the tracer
//     never affect pipeline correctness.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
