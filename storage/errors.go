package storage

import "github.com/hyp3rd/ewrap"

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = ewrap.New("not found")
