package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

func documentTable(kind store.DocumentKind) (string, error) {
	switch kind {
	case store.DocumentKindLessonPlan:
		return "lesson_plan", nil
	case store.DocumentKindLessonNote:
		return "lesson_note", nil
	default:
		return "", errors.Errorf("unknown document kind: %s", kind)
	}
}

// UpsertDocumentEmbedding inserts or updates a document embedding. Only the
// embedding row is touched; the document's title/content are never part of
// this statement, so it cannot race with concurrent content edits.
func (d *DB) UpsertDocumentEmbedding(ctx context.Context, embedding *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO document_embedding (document_kind, document_id, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (document_kind, document_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`

	vector := pgvector.NewVector(embedding.Embedding)
	if err := d.db.QueryRowContext(ctx, stmt,
		embedding.DocumentKind.String(),
		embedding.DocumentID,
		vector,
		embedding.Model,
		now,
		now,
	).Scan(&embedding.ID, &embedding.CreatedTs, &embedding.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert document embedding")
	}

	return embedding, nil
}

// ListDocumentEmbeddings lists document embeddings.
func (d *DB) ListDocumentEmbeddings(ctx context.Context, find *store.FindDocumentEmbedding) ([]*store.DocumentEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.DocumentKind != nil {
		where, args = append(where, "document_kind = "+placeholder(len(args)+1)), append(args, find.DocumentKind.String())
	}
	if find.DocumentID != nil {
		where, args = append(where, "document_id = "+placeholder(len(args)+1)), append(args, *find.DocumentID)
	}
	if find.Model != nil {
		where, args = append(where, "model = "+placeholder(len(args)+1)), append(args, *find.Model)
	}

	query := `
		SELECT id, document_kind, document_id, embedding, model, created_ts, updated_ts
		FROM document_embedding
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list document embeddings")
	}
	defer rows.Close()

	list := []*store.DocumentEmbedding{}
	for rows.Next() {
		var embedding store.DocumentEmbedding
		var vector pgvector.Vector
		if err := rows.Scan(
			&embedding.ID,
			&embedding.DocumentKind,
			&embedding.DocumentID,
			&vector,
			&embedding.Model,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan document embedding")
		}
		embedding.Embedding = vector.Slice()
		list = append(list, &embedding)
	}
	return list, rows.Err()
}

// DeleteDocumentEmbedding deletes a document embedding. Deleting an embedding
// that does not exist is not an error so document deletion can always cascade.
func (d *DB) DeleteDocumentEmbedding(ctx context.Context, kind store.DocumentKind, documentID int32) error {
	stmt := `DELETE FROM document_embedding WHERE document_kind = ` + placeholder(1) + ` AND document_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, kind.String(), documentID); err != nil {
		return errors.Wrap(err, "failed to delete document embedding")
	}
	return nil
}

// VectorSearchDocuments performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity), so
// ordering by distance ascending yields the most similar candidates first.
// The join against the live document table enforces owner scoping and the
// optional secondary filters inside the query itself.
func (d *DB) VectorSearchDocuments(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.DocumentMatch, error) {
	table, err := documentTable(opts.Kind)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	vector := pgvector.NewVector(opts.Vector)
	where, args := []string{}, []any{}

	args = append(args, vector)
	scoreExpr := "1 - (e.embedding <=> " + placeholder(len(args)) + ")"

	where, args = append(where, "e.document_kind = "+placeholder(len(args)+1)), append(args, opts.Kind.String())
	where, args = append(where, "e.model = "+placeholder(len(args)+1)), append(args, opts.Model)
	where, args = append(where, "doc.creator_id = "+placeholder(len(args)+1)), append(args, opts.OwnerID)
	where = append(where, "doc.row_status = 'NORMAL'")

	switch opts.Kind {
	case store.DocumentKindLessonPlan:
		if opts.ClassID != nil {
			where, args = append(where, "doc.class_id = "+placeholder(len(args)+1)), append(args, *opts.ClassID)
		}
		if opts.SubjectID != nil {
			where, args = append(where, "doc.subject_id = "+placeholder(len(args)+1)), append(args, *opts.SubjectID)
		}
	case store.DocumentKindLessonNote:
		if opts.LessonPlanID != nil {
			where, args = append(where, "doc.lesson_plan_id = "+placeholder(len(args)+1)), append(args, *opts.LessonPlanID)
		}
	}

	args = append(args, vector)
	orderExpr := "e.embedding <=> " + placeholder(len(args))
	args = append(args, limit)
	limitExpr := placeholder(len(args))

	query := `
		SELECT e.document_id, ` + scoreExpr + ` AS score
		FROM document_embedding e
		INNER JOIN ` + table + ` doc ON doc.id = e.document_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderExpr + `
		LIMIT ` + limitExpr

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search documents")
	}
	defer rows.Close()

	matches := []*store.DocumentMatch{}
	for rows.Next() {
		var match store.DocumentMatch
		if err := rows.Scan(&match.DocumentID, &match.Score); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

// FindDocumentsNeedingEmbedding finds documents whose embedding is absent or
// older than the document's last update.
func (d *DB) FindDocumentsNeedingEmbedding(ctx context.Context, find *store.FindDocumentsNeedingEmbedding) ([]int32, error) {
	table, err := documentTable(find.Kind)
	if err != nil {
		return nil, err
	}

	limit := find.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT doc.id
		FROM ` + table + ` doc
		LEFT JOIN document_embedding e
			ON e.document_id = doc.id
			AND e.document_kind = ` + placeholder(1) + `
			AND e.model = ` + placeholder(2) + `
		WHERE (e.id IS NULL OR e.updated_ts < doc.updated_ts)
			AND doc.row_status = 'NORMAL'
		ORDER BY doc.updated_ts DESC
		LIMIT ` + placeholder(3)

	rows, err := d.db.QueryContext(ctx, query, find.Kind.String(), find.Model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find documents needing embedding")
	}
	defer rows.Close()

	ids := []int32{}
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan document id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
