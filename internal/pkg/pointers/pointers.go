package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// NonZero returns nil for the zero value of T, mirroring nullable columns.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
