package db

import "errors"

// ErrNotFound is returned when a requested entity does not exist in the
// store. Repositories wrap it with context; callers test with errors.Is.
var ErrNotFound = errors.New("entity not found")
