package searchengine

// Scope restricts a search to one owner's documents, with optional secondary
// narrowing. OwnerID is mandatory; a scope without a valid owner never reaches
// the index. The secondary filters are applied at query construction, never as
// a post-filter over someone else's candidates.
type Scope struct {
	OwnerID int32

	// ClassID and SubjectID narrow lesson plan searches.
	ClassID   *int32
	SubjectID *int32

	// LessonPlanID narrows lesson note searches to notes of one plan.
	LessonPlanID *int32
}

// Valid reports whether the scope identifies an authenticated owner.
func (s Scope) Valid() bool {
	return s.OwnerID > 0
}
