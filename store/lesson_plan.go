package store

import "context"

// LessonPlan is a teacher-authored lesson plan. Content holds the richtext
// block tree as JSON; its embedding lives in document_embedding and may lag
// behind edits until the indexer catches up.
type LessonPlan struct {
	ID        int32
	UID       string
	CreatorID int32
	ClassID   int32
	SubjectID int32
	Title     string
	Content   string
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
}

// FindLessonPlan is the find condition for lesson plans.
type FindLessonPlan struct {
	ID        *int32
	IDList    []int32
	UID       *string
	CreatorID *int32
	ClassID   *int32
	SubjectID *int32
	RowStatus *RowStatus
	Limit     *int
	Offset    *int
}

// UpdateLessonPlan is the update payload for a lesson plan.
type UpdateLessonPlan struct {
	ID        int32
	ClassID   *int32
	SubjectID *int32
	Title     *string
	Content   *string
	RowStatus *RowStatus
}

// DeleteLessonPlan is the delete condition for a lesson plan.
type DeleteLessonPlan struct {
	ID int32
}

// CreateLessonPlan creates a new lesson plan.
func (s *Store) CreateLessonPlan(ctx context.Context, create *LessonPlan) (*LessonPlan, error) {
	return s.driver.CreateLessonPlan(ctx, create)
}

// ListLessonPlans lists lesson plans.
func (s *Store) ListLessonPlans(ctx context.Context, find *FindLessonPlan) ([]*LessonPlan, error) {
	return s.driver.ListLessonPlans(ctx, find)
}

// GetLessonPlan gets a lesson plan by find condition, returning nil when none
// matches.
func (s *Store) GetLessonPlan(ctx context.Context, find *FindLessonPlan) (*LessonPlan, error) {
	list, err := s.driver.ListLessonPlans(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateLessonPlan updates a lesson plan.
func (s *Store) UpdateLessonPlan(ctx context.Context, update *UpdateLessonPlan) (*LessonPlan, error) {
	return s.driver.UpdateLessonPlan(ctx, update)
}

// DeleteLessonPlan deletes a lesson plan and its embedding.
func (s *Store) DeleteLessonPlan(ctx context.Context, delete *DeleteLessonPlan) error {
	if err := s.driver.DeleteLessonPlan(ctx, delete); err != nil {
		return err
	}
	return s.driver.DeleteDocumentEmbedding(ctx, DocumentKindLessonPlan, delete.ID)
}
