package store

import (
	"context"
	"fmt"
)

// User is a teacher account. All documents are scoped to their creating user.
type User struct {
	ID           int32
	Username     string
	Nickname     string
	PasswordHash string
	AccessToken  string
	RowStatus    RowStatus
	CreatedTs    int64
	UpdatedTs    int64
}

// FindUser is the find condition for users.
type FindUser struct {
	ID          *int32
	Username    *string
	AccessToken *string
}

// UpdateUser is the update payload for a user.
type UpdateUser struct {
	ID          int32
	Nickname    *string
	AccessToken *string
	RowStatus   *RowStatus
}

// DeleteUser is the delete condition for a user.
type DeleteUser struct {
	ID int32
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

// UpdateUser updates a user and invalidates its cache entry.
func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Delete(ctx, userCacheKey(user.ID))
	return user, nil
}

// ListUsers lists users.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser gets a user by find condition, returning nil when no user matches.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && find.Username == nil && find.AccessToken == nil {
		if cached, ok := s.userCache.Get(ctx, userCacheKey(*find.ID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

// DeleteUser deletes a user.
func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	s.userCache.Delete(ctx, userCacheKey(delete.ID))
	return nil
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}
