package util

// Map applies a function to the given slice and returns the transformed slice.
func Map[T, R any](slice []T, f func(T) R) []R {
	mapped := make([]R, len(slice))

	for i, elem := range slice {
		mapped[i] = f(elem)
	}

	return mapped
}
