package repository

import "errors"

// ErrNotFound indicates the requested record does not exist or is deleted.
var ErrNotFound = errors.New("repository: not found")
