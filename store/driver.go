package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Class model related methods.
	CreateClass(ctx context.Context, create *Class) (*Class, error)
	ListClasses(ctx context.Context, find *FindClass) ([]*Class, error)
	UpdateClass(ctx context.Context, update *UpdateClass) (*Class, error)
	DeleteClass(ctx context.Context, delete *DeleteClass) error

	// Subject model related methods.
	CreateSubject(ctx context.Context, create *Subject) (*Subject, error)
	ListSubjects(ctx context.Context, find *FindSubject) ([]*Subject, error)
	UpdateSubject(ctx context.Context, update *UpdateSubject) (*Subject, error)
	DeleteSubject(ctx context.Context, delete *DeleteSubject) error

	// LessonPlan model related methods.
	CreateLessonPlan(ctx context.Context, create *LessonPlan) (*LessonPlan, error)
	ListLessonPlans(ctx context.Context, find *FindLessonPlan) ([]*LessonPlan, error)
	UpdateLessonPlan(ctx context.Context, update *UpdateLessonPlan) (*LessonPlan, error)
	DeleteLessonPlan(ctx context.Context, delete *DeleteLessonPlan) error

	// LessonNote model related methods.
	CreateLessonNote(ctx context.Context, create *LessonNote) (*LessonNote, error)
	ListLessonNotes(ctx context.Context, find *FindLessonNote) ([]*LessonNote, error)
	UpdateLessonNote(ctx context.Context, update *UpdateLessonNote) (*LessonNote, error)
	DeleteLessonNote(ctx context.Context, delete *DeleteLessonNote) error

	// DocumentEmbedding model related methods.
	UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error)
	ListDocumentEmbeddings(ctx context.Context, find *FindDocumentEmbedding) ([]*DocumentEmbedding, error)
	DeleteDocumentEmbedding(ctx context.Context, kind DocumentKind, documentID int32) error

	// VectorSearchDocuments performs vector similarity search over one content
	// kind, scoped to the owner at query construction. It returns candidate
	// document IDs with similarity scores, most similar first.
	VectorSearchDocuments(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentMatch, error)

	// FindDocumentsNeedingEmbedding returns IDs of documents whose embedding
	// is absent or older than the document itself.
	FindDocumentsNeedingEmbedding(ctx context.Context, find *FindDocumentsNeedingEmbedding) ([]int32, error)
}
