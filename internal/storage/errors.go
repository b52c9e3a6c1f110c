package storage

import "errors"

// ErrNotFound is returned by mutating operations whose target record
// does not exist. Reads report absence as (nil, nil) instead.
var ErrNotFound = errors.New("record not found")
