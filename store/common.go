package store

// RowStatus is the status of a row.
type RowStatus string

const (
	// Normal is the status for a normal row.
	Normal RowStatus = "NORMAL"
	// Archived is the status for an archived row.
	Archived RowStatus = "ARCHIVED"
)

func (s RowStatus) String() string {
	return string(s)
}

// DocumentKind identifies a searchable content kind.
type DocumentKind string

const (
	// DocumentKindLessonPlan is the lesson plan content kind.
	DocumentKindLessonPlan DocumentKind = "PLAN"
	// DocumentKindLessonNote is the lesson note content kind.
	DocumentKindLessonNote DocumentKind = "NOTE"
)

func (k DocumentKind) String() string {
	return string(k)
}
