package core

import "github.com/hyp3rd/ewrap"

var (
	ErrRunNotFound = ewrap.New("run not found")
	ErrClosed      = ewrap.New("database closed")
)
