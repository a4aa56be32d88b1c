package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
// Callers use errors.Is to map it to a 404 or a failed report task.
var ErrNotFound = errors.New("not found")
