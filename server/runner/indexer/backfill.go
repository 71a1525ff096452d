package indexer

import (
	"context"
	"log/slog"
	"time"

	"github.com/classwise/classwise/store"
)

// BackfillRunner periodically sweeps for documents whose embedding is missing
// or older than the document itself and reindexes them. Together with the
// mutation-driven jobs this gives at-least-once indexing coverage.
type BackfillRunner struct {
	store     *store.Store
	indexer   *Indexer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewBackfillRunner creates a backfill runner with conservative defaults:
// small batches keep memory peaks low on small deployments.
func NewBackfillRunner(s *store.Store, indexer *Indexer, logger *slog.Logger) *BackfillRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackfillRunner{
		store:     s,
		indexer:   indexer,
		interval:  2 * time.Minute,
		batchSize: 8,
		logger:    logger,
	}
}

// Run starts the background sweep and blocks until the context is canceled.
func (r *BackfillRunner) Run(ctx context.Context) {
	// Sweep once on startup.
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			r.logger.Info("embedding backfill runner stopped")
			return
		}
	}
}

// RunOnce sweeps both document kinds once.
func (r *BackfillRunner) RunOnce(ctx context.Context) {
	for _, kind := range []store.DocumentKind{store.DocumentKindLessonPlan, store.DocumentKindLessonNote} {
		r.processKind(ctx, kind)
	}
}

func (r *BackfillRunner) processKind(ctx context.Context, kind store.DocumentKind) {
	ids, err := r.store.FindDocumentsNeedingEmbedding(ctx, &store.FindDocumentsNeedingEmbedding{
		Kind:  kind,
		Model: r.indexer.Model(),
		Limit: r.batchSize * 20,
	})
	if err != nil {
		r.logger.Error("failed to find documents needing embedding",
			slog.String("document_kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(ids) == 0 {
		return
	}

	r.logger.Info("backfilling document embeddings",
		slog.String("document_kind", kind.String()),
		slog.Int("count", len(ids)),
	)

	for i, id := range ids {
		select {
		case <-ctx.Done():
			r.logger.Info("embedding backfill canceled",
				slog.Int("processed", i),
				slog.Int("total", len(ids)),
			)
			return
		default:
		}

		if err := r.indexer.Reindex(ctx, kind, id); err != nil {
			r.logger.Error("failed to backfill embedding",
				slog.String("document_kind", kind.String()),
				slog.Int64("document_id", int64(id)),
				slog.String("error", err.Error()),
			)
		}
	}
}
