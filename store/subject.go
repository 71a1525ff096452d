package store

import "context"

// Subject represents a teaching subject.
type Subject struct {
	ID        int32
	UID       string
	CreatorID int32
	Name      string
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
}

// FindSubject is the find condition for subjects.
type FindSubject struct {
	ID        *int32
	UID       *string
	CreatorID *int32
}

// UpdateSubject is the update payload for a subject.
type UpdateSubject struct {
	ID        int32
	Name      *string
	RowStatus *RowStatus
}

// DeleteSubject is the delete condition for a subject.
type DeleteSubject struct {
	ID int32
}

// CreateSubject creates a new subject.
func (s *Store) CreateSubject(ctx context.Context, create *Subject) (*Subject, error) {
	return s.driver.CreateSubject(ctx, create)
}

// ListSubjects lists subjects.
func (s *Store) ListSubjects(ctx context.Context, find *FindSubject) ([]*Subject, error) {
	return s.driver.ListSubjects(ctx, find)
}

// GetSubject gets a subject by find condition, returning nil when none matches.
func (s *Store) GetSubject(ctx context.Context, find *FindSubject) (*Subject, error) {
	list, err := s.driver.ListSubjects(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateSubject updates a subject.
func (s *Store) UpdateSubject(ctx context.Context, update *UpdateSubject) (*Subject, error) {
	return s.driver.UpdateSubject(ctx, update)
}

// DeleteSubject deletes a subject.
func (s *Store) DeleteSubject(ctx context.Context, delete *DeleteSubject) error {
	return s.driver.DeleteSubject(ctx, delete)
}
