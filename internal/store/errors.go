package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by errors for operations on a missing project
var ErrNotFound = errors.New("project not found")

// Error is a failed store operation
type Error struct {
	Op      string // list, get, create, update, delete, stats
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
