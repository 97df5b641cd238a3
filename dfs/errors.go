package dfs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRoot is returned by New when the lister has no
	// record of the root. The traversal cannot begin.
	ErrMissingRoot = errors.New("dfs: missing root")

	// ErrMissingNode is reported by Err when a Branch that was
	// listed as a child could not be found by the lister.
	ErrMissingNode = errors.New("dfs: missing node")
)

// MissingNodeError is the error reported when a Branch could not
// be expanded because the lister has no record of it.
// It matches ErrMissingNode with errors.Is.
type MissingNodeError[K comparable] struct {
	ID  K
	Err error
}

func (e *MissingNodeError[K]) Error() string {
	return fmt.Sprintf("dfs: missing node %v: %v", e.ID, e.Err)
}

func (e *MissingNodeError[K]) Is(target error) bool {
	return target == ErrMissingNode
}

func (e *MissingNodeError[K]) Unwrap() error {
	return e.Err
}
