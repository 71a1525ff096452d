package store

import "context"

// LessonNote is a note attached to a lesson plan.
type LessonNote struct {
	ID           int32
	UID          string
	CreatorID    int32
	LessonPlanID int32
	Title        string
	Content      string
	RowStatus    RowStatus
	CreatedTs    int64
	UpdatedTs    int64
}

// FindLessonNote is the find condition for lesson notes.
type FindLessonNote struct {
	ID           *int32
	IDList       []int32
	UID          *string
	CreatorID    *int32
	LessonPlanID *int32
	RowStatus    *RowStatus
	Limit        *int
	Offset       *int
}

// UpdateLessonNote is the update payload for a lesson note.
type UpdateLessonNote struct {
	ID        int32
	Title     *string
	Content   *string
	RowStatus *RowStatus
}

// DeleteLessonNote is the delete condition for a lesson note.
type DeleteLessonNote struct {
	ID int32
}

// CreateLessonNote creates a new lesson note.
func (s *Store) CreateLessonNote(ctx context.Context, create *LessonNote) (*LessonNote, error) {
	return s.driver.CreateLessonNote(ctx, create)
}

// ListLessonNotes lists lesson notes.
func (s *Store) ListLessonNotes(ctx context.Context, find *FindLessonNote) ([]*LessonNote, error) {
	return s.driver.ListLessonNotes(ctx, find)
}

// GetLessonNote gets a lesson note by find condition, returning nil when none
// matches.
func (s *Store) GetLessonNote(ctx context.Context, find *FindLessonNote) (*LessonNote, error) {
	list, err := s.driver.ListLessonNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateLessonNote updates a lesson note.
func (s *Store) UpdateLessonNote(ctx context.Context, update *UpdateLessonNote) (*LessonNote, error) {
	return s.driver.UpdateLessonNote(ctx, update)
}

// DeleteLessonNote deletes a lesson note and its embedding.
func (s *Store) DeleteLessonNote(ctx context.Context, delete *DeleteLessonNote) error {
	if err := s.driver.DeleteLessonNote(ctx, delete); err != nil {
		return err
	}
	return s.driver.DeleteDocumentEmbedding(ctx, DocumentKindLessonNote, delete.ID)
}
