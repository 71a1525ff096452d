package searchengine

// mergeResults merges exact title matches with semantic results: exact
// matches first, then semantic results in their existing score order, with
// duplicates (by document ID) collapsed into the exact match. The merged list
// is truncated to the limit.
func mergeResults(exact, semantic []*ScoredDocument, limit int) []*ScoredDocument {
	merged := make([]*ScoredDocument, 0, len(exact)+len(semantic))
	seen := make(map[int32]bool, len(exact))

	for _, result := range exact {
		if seen[result.Document.ID] {
			continue
		}
		seen[result.Document.ID] = true
		merged = append(merged, result)
	}
	for _, result := range semantic {
		if seen[result.Document.ID] {
			continue
		}
		seen[result.Document.ID] = true
		merged = append(merged, result)
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
