package core

import (
	"errors"
	"fmt"
)

// ErrClosed is reported by links whose underlying stream has ended.
var ErrClosed = errors.New("link closed")

type LinkError struct {
	Link string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: %v", e.Link, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
