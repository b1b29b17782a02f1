package utils

// Ptr returns a pointer to v, for building optional-field payloads inline.
func Ptr[T any](v T) *T {
	return &v
}
