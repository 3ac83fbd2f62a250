package repositories

import "errors"

// Store-level error kinds. Services and handlers match these with errors.Is;
// repository implementations translate driver errors into them so nothing
// above this layer depends on GORM error values.
var (
	// ErrNotFound is returned when a lookup misses or an owner-scoped
	// update/flag matches zero rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated
	// (username or email already taken).
	ErrDuplicate = errors.New("duplicate record")
)
