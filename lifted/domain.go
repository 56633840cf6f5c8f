package lifted

// SearchColumns is an index key for a relation: bit i set means column i
// participates in the search.
type SearchColumns uint64

// TotalSearch returns the key selecting every column of a relation with
// the given arity.
func TotalSearch(arity int) SearchColumns {
	return SearchColumns(1)<<uint(arity) - 1
}

// Covers reports whether column i participates in the search.
func (s SearchColumns) Covers(i int) bool {
	return s&(1<<uint(i)) != 0
}

// CompareTuples compares two equal-length tuples lexicographically.
func CompareTuples(a, b []Val) int {
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
