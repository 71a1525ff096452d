package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

// SQLite has no vector extension in this deployment, so embedding storage and
// similarity search are PostgreSQL-only. Callers degrade gracefully: search
// falls back to exact title matching and the indexer logs and skips.

func (d *DB) UpsertDocumentEmbedding(_ context.Context, _ *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	return nil, errors.New("document embedding requires PostgreSQL with pgvector")
}

func (d *DB) ListDocumentEmbeddings(_ context.Context, _ *store.FindDocumentEmbedding) ([]*store.DocumentEmbedding, error) {
	return nil, errors.New("document embedding requires PostgreSQL with pgvector")
}

func (d *DB) DeleteDocumentEmbedding(_ context.Context, _ store.DocumentKind, _ int32) error {
	// Nothing to delete; treat as a no-op so document deletion never fails
	// on SQLite deployments.
	return nil
}

func (d *DB) VectorSearchDocuments(_ context.Context, _ *store.VectorSearchOptions) ([]*store.DocumentMatch, error) {
	return nil, errors.New("vector search requires PostgreSQL with pgvector")
}

func (d *DB) FindDocumentsNeedingEmbedding(_ context.Context, _ *store.FindDocumentsNeedingEmbedding) ([]int32, error) {
	return nil, errors.New("document embedding requires PostgreSQL with pgvector")
}
