package store

import "context"

// DocumentEmbedding represents the vector embedding of a lesson plan or note.
// A document has no embedding row until the indexer first succeeds; the row
// is overwritten in place on every successful recompute.
type DocumentEmbedding struct {
	ID           int32
	DocumentKind DocumentKind
	DocumentID   int32
	Embedding    []float32
	Model        string
	CreatedTs    int64
	UpdatedTs    int64
}

// FindDocumentEmbedding is the find condition for document embeddings.
type FindDocumentEmbedding struct {
	DocumentKind *DocumentKind
	DocumentID   *int32
	Model        *string
}

// DocumentMatch is a vector search candidate: a document ID with its
// similarity score in [0,1], where higher is more similar.
type DocumentMatch struct {
	DocumentID int32
	Score      float32
}

// VectorSearchOptions represents the options for vector search. OwnerID is
// required; the optional secondary filters narrow the result set and are
// applied inside the query, never as a post-filter.
type VectorSearchOptions struct {
	Kind         DocumentKind
	OwnerID      int32
	Vector       []float32
	Limit        int
	Model        string
	ClassID      *int32
	SubjectID    *int32
	LessonPlanID *int32
}

// FindDocumentsNeedingEmbedding finds documents whose embedding is absent or
// stale (document updated after the embedding was written).
type FindDocumentsNeedingEmbedding struct {
	Kind  DocumentKind
	Model string
	Limit int
}

// UpsertDocumentEmbedding inserts or updates a document embedding.
func (s *Store) UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error) {
	return s.driver.UpsertDocumentEmbedding(ctx, embedding)
}

// GetDocumentEmbedding gets the embedding of a specific document, returning
// nil when the document has no embedding yet.
func (s *Store) GetDocumentEmbedding(ctx context.Context, kind DocumentKind, documentID int32, model string) (*DocumentEmbedding, error) {
	list, err := s.driver.ListDocumentEmbeddings(ctx, &FindDocumentEmbedding{
		DocumentKind: &kind,
		DocumentID:   &documentID,
		Model:        &model,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListDocumentEmbeddings lists document embeddings.
func (s *Store) ListDocumentEmbeddings(ctx context.Context, find *FindDocumentEmbedding) ([]*DocumentEmbedding, error) {
	return s.driver.ListDocumentEmbeddings(ctx, find)
}

// DeleteDocumentEmbedding deletes a document embedding.
func (s *Store) DeleteDocumentEmbedding(ctx context.Context, kind DocumentKind, documentID int32) error {
	return s.driver.DeleteDocumentEmbedding(ctx, kind, documentID)
}

// VectorSearchDocuments performs vector similarity search.
func (s *Store) VectorSearchDocuments(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentMatch, error) {
	return s.driver.VectorSearchDocuments(ctx, opts)
}

// FindDocumentsNeedingEmbedding returns IDs of documents that need (re)indexing.
func (s *Store) FindDocumentsNeedingEmbedding(ctx context.Context, find *FindDocumentsNeedingEmbedding) ([]int32, error) {
	return s.driver.FindDocumentsNeedingEmbedding(ctx, find)
}
