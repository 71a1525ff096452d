package searchengine

import (
	"context"

	"github.com/classwise/classwise/plugin/richtext"
	"github.com/classwise/classwise/store"
)

// snippetLimit bounds the plain-text extract carried on search results.
const snippetLimit = 200

// ContentKind abstracts one searchable document kind. The engine runs the
// same pipeline against any kind; the kind supplies the index query, the
// hydration path through the live store and the scoped listing used for
// exact title matching.
type ContentKind interface {
	// Name is the kind's wire name, e.g. "lesson_plan".
	Name() string

	// Kind is the store-level document kind.
	Kind() store.DocumentKind

	// VectorSearch returns candidate document IDs with similarity scores,
	// most similar first, scoped to the owner at query construction.
	VectorSearch(ctx context.Context, vector []float32, scope Scope, limit int) ([]*store.DocumentMatch, error)

	// Hydrate resolves candidate IDs against the live store, preserving the
	// input order and silently dropping IDs that no longer resolve within
	// the scope.
	Hydrate(ctx context.Context, scope Scope, ids []int32) ([]*Document, error)

	// ListScoped lists the owner's live documents within the scope, most
	// recently updated first.
	ListScoped(ctx context.Context, scope Scope) ([]*Document, error)
}

type lessonPlanKind struct {
	store *store.Store
	model string
}

// NewLessonPlanKind returns the lesson plan content kind backed by the store.
func NewLessonPlanKind(s *store.Store, model string) ContentKind {
	return &lessonPlanKind{store: s, model: model}
}

func (*lessonPlanKind) Name() string {
	return "lesson_plan"
}

func (*lessonPlanKind) Kind() store.DocumentKind {
	return store.DocumentKindLessonPlan
}

func (k *lessonPlanKind) VectorSearch(ctx context.Context, vector []float32, scope Scope, limit int) ([]*store.DocumentMatch, error) {
	return k.store.VectorSearchDocuments(ctx, &store.VectorSearchOptions{
		Kind:      store.DocumentKindLessonPlan,
		OwnerID:   scope.OwnerID,
		Vector:    vector,
		Limit:     limit,
		Model:     k.model,
		ClassID:   scope.ClassID,
		SubjectID: scope.SubjectID,
	})
}

func (k *lessonPlanKind) Hydrate(ctx context.Context, scope Scope, ids []int32) ([]*Document, error) {
	if len(ids) == 0 {
		return []*Document{}, nil
	}
	normal := store.Normal
	plans, err := k.store.ListLessonPlans(ctx, &store.FindLessonPlan{
		IDList:    ids,
		CreatorID: &scope.OwnerID,
		RowStatus: &normal,
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[int32]*store.LessonPlan, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
	}
	documents := make([]*Document, 0, len(ids))
	for _, id := range ids {
		if plan, ok := byID[id]; ok {
			documents = append(documents, lessonPlanDocument(plan))
		}
	}
	return documents, nil
}

func (k *lessonPlanKind) ListScoped(ctx context.Context, scope Scope) ([]*Document, error) {
	normal := store.Normal
	plans, err := k.store.ListLessonPlans(ctx, &store.FindLessonPlan{
		CreatorID: &scope.OwnerID,
		ClassID:   scope.ClassID,
		SubjectID: scope.SubjectID,
		RowStatus: &normal,
	})
	if err != nil {
		return nil, err
	}
	documents := make([]*Document, 0, len(plans))
	for _, plan := range plans {
		documents = append(documents, lessonPlanDocument(plan))
	}
	return documents, nil
}

func lessonPlanDocument(plan *store.LessonPlan) *Document {
	return &Document{
		ID:        plan.ID,
		UID:       plan.UID,
		Kind:      store.DocumentKindLessonPlan,
		Title:     plan.Title,
		Snippet:   contentSnippet(plan.Content),
		ClassID:   plan.ClassID,
		SubjectID: plan.SubjectID,
		UpdatedTs: plan.UpdatedTs,
	}
}

type lessonNoteKind struct {
	store *store.Store
	model string
}

// NewLessonNoteKind returns the lesson note content kind backed by the store.
func NewLessonNoteKind(s *store.Store, model string) ContentKind {
	return &lessonNoteKind{store: s, model: model}
}

func (*lessonNoteKind) Name() string {
	return "lesson_note"
}

func (*lessonNoteKind) Kind() store.DocumentKind {
	return store.DocumentKindLessonNote
}

func (k *lessonNoteKind) VectorSearch(ctx context.Context, vector []float32, scope Scope, limit int) ([]*store.DocumentMatch, error) {
	return k.store.VectorSearchDocuments(ctx, &store.VectorSearchOptions{
		Kind:         store.DocumentKindLessonNote,
		OwnerID:      scope.OwnerID,
		Vector:       vector,
		Limit:        limit,
		Model:        k.model,
		LessonPlanID: scope.LessonPlanID,
	})
}

func (k *lessonNoteKind) Hydrate(ctx context.Context, scope Scope, ids []int32) ([]*Document, error) {
	if len(ids) == 0 {
		return []*Document{}, nil
	}
	normal := store.Normal
	notes, err := k.store.ListLessonNotes(ctx, &store.FindLessonNote{
		IDList:    ids,
		CreatorID: &scope.OwnerID,
		RowStatus: &normal,
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[int32]*store.LessonNote, len(notes))
	for _, note := range notes {
		byID[note.ID] = note
	}
	documents := make([]*Document, 0, len(ids))
	for _, id := range ids {
		if note, ok := byID[id]; ok {
			documents = append(documents, lessonNoteDocument(note))
		}
	}
	return documents, nil
}

func (k *lessonNoteKind) ListScoped(ctx context.Context, scope Scope) ([]*Document, error) {
	normal := store.Normal
	notes, err := k.store.ListLessonNotes(ctx, &store.FindLessonNote{
		CreatorID:    &scope.OwnerID,
		LessonPlanID: scope.LessonPlanID,
		RowStatus:    &normal,
	})
	if err != nil {
		return nil, err
	}
	documents := make([]*Document, 0, len(notes))
	for _, note := range notes {
		documents = append(documents, lessonNoteDocument(note))
	}
	return documents, nil
}

func lessonNoteDocument(note *store.LessonNote) *Document {
	return &Document{
		ID:           note.ID,
		UID:          note.UID,
		Kind:         store.DocumentKindLessonNote,
		Title:        note.Title,
		Snippet:      contentSnippet(note.Content),
		LessonPlanID: note.LessonPlanID,
		UpdatedTs:    note.UpdatedTs,
	}
}

func contentSnippet(content string) string {
	document, err := richtext.Parse(content)
	if err != nil {
		return ""
	}
	return richtext.Truncate(document.PlainText(), snippetLimit)
}
