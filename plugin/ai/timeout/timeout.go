// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// EmbeddingTimeout is the timeout for embedding generation.
	EmbeddingTimeout = 30 * time.Second

	// ChatTimeout is the timeout for LLM chat completion.
	ChatTimeout = 2 * time.Minute

	// VectorSearchTimeout is the timeout for a vector index query.
	VectorSearchTimeout = 10 * time.Second
)
