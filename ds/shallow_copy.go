package ds

// ShallowCopy copies ts into a new slice, with extra appended after it. The
// result never shares its backing array with ts.
func ShallowCopy[T any](ts []T, extra ...T) []T {
	tsCopy := make([]T, len(ts), len(ts)+len(extra))
	copy(tsCopy, ts)
	return append(tsCopy, extra...)
}
