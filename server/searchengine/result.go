package searchengine

import "github.com/classwise/classwise/store"

// Document is the kind-agnostic projection of a searchable document, hydrated
// from the live store so deleted or archived documents never surface.
type Document struct {
	ID    int32
	UID   string
	Kind  store.DocumentKind
	Title string
	// Snippet is a plain-text extract of the document content.
	Snippet string

	// ClassID and SubjectID are set for lesson plans, LessonPlanID for notes.
	ClassID      int32
	SubjectID    int32
	LessonPlanID int32

	UpdatedTs int64
}

// ScoredDocument is a search result: a hydrated document with its similarity
// score. ExactTitleMatch marks results contributed by the exact title pass,
// which always rank ahead of semantic results.
type ScoredDocument struct {
	Document *Document
	Score    float32

	ExactTitleMatch bool
}
