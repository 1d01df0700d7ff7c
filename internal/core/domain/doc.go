// Package domain defines the core business entities for Docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque uploaded bytes before loading
//   - Document: A loaded document with normalised text content
//   - Chunk: A retrievable passage within a document
//   - Session: The live binding of a document, its index and chat history
//   - ConversationTurn: One question/answer pair in a session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
