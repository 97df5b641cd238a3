// Package listing describes a tree that can only be discovered one
// directory at a time, by asking a Lister for the children of a node.
//
// The Lister is the only way to learn the shape of the tree:
//
//	children, err := l.List(ctx, id)
//	switch {
//	case errors.Is(err, listing.ErrNotFound):
//		// the lister has no record of id at all
//	case err != nil:
//		// the lister could not answer
//	case len(children) == 0:
//		// id is known and has no children
//	}
//
// Implementations in this package need no external service.
// See the boltlist and natslist subpackages for persisted and
// remote listers.
package listing

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Lister that has no record of the
// requested node. It is distinct from a known node with no children.
var ErrNotFound = errors.New("listing: node not found")

// Lister resolves a node identifier to the ordered list of its
// direct children.
//
// Listing the same id twice should return the same children and
// have no side effects. The returned slice belongs to the caller.
type Lister[K comparable] interface {
	List(ctx context.Context, id K) ([]Entry[K], error)
}

// ListerFunc adapts a function to a Lister.
type ListerFunc[K comparable] func(ctx context.Context, id K) ([]Entry[K], error)

func (f ListerFunc[K]) List(ctx context.Context, id K) ([]Entry[K], error) {
	return f(ctx, id)
}
