package store

import "context"

// Class represents a class taught by a user.
type Class struct {
	ID        int32
	UID       string
	CreatorID int32
	Name      string
	Grade     string
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
}

// FindClass is the find condition for classes.
type FindClass struct {
	ID        *int32
	UID       *string
	CreatorID *int32
}

// UpdateClass is the update payload for a class.
type UpdateClass struct {
	ID        int32
	Name      *string
	Grade     *string
	RowStatus *RowStatus
}

// DeleteClass is the delete condition for a class.
type DeleteClass struct {
	ID int32
}

// CreateClass creates a new class.
func (s *Store) CreateClass(ctx context.Context, create *Class) (*Class, error) {
	return s.driver.CreateClass(ctx, create)
}

// ListClasses lists classes.
func (s *Store) ListClasses(ctx context.Context, find *FindClass) ([]*Class, error) {
	return s.driver.ListClasses(ctx, find)
}

// GetClass gets a class by find condition, returning nil when none matches.
func (s *Store) GetClass(ctx context.Context, find *FindClass) (*Class, error) {
	list, err := s.driver.ListClasses(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateClass updates a class.
func (s *Store) UpdateClass(ctx context.Context, update *UpdateClass) (*Class, error) {
	return s.driver.UpdateClass(ctx, update)
}

// DeleteClass deletes a class.
func (s *Store) DeleteClass(ctx context.Context, delete *DeleteClass) error {
	return s.driver.DeleteClass(ctx, delete)
}
