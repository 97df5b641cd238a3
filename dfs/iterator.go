// Package dfs walks a tree that is discovered one directory at a
// time through a listing.Lister.
//
// The walk is depth-first and post-order: every entry below a Branch
// is yielded before the Branch itself. Within one directory, entries
// are yielded last-listed first. Callers that need listed order must
// reverse the results themselves, see Listed.
//
// Each Branch is listed at most once, and only when the walk reaches
// it, so stopping early never pays for unexplored subtrees.
package dfs

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.lepak.sg/frontier/listing"
)

// Iterator is a lazy depth-first iterator over a listed tree.
// The usage should be pretty familiar:
//
//	i, err := dfs.New(ctx, lister, root)
//	if err != nil {
//		... the root could not be listed ...
//	}
//	for i.Next() {
//		e := i.Item()
//		... do stuff with e, or break ...
//	}
//	if err := i.Err(); err != nil {
//		... a Branch could not be listed ...
//	}
//
// The iterator may be abandoned at any time. It cannot be rewound;
// create a new one to walk the tree again.
// An Iterator must only be used by one goroutine at a time.
// The result of changing the tree while iterating over it is undefined.
type Iterator[K comparable] struct {
	ctx    context.Context
	lister listing.Lister[K]
	f      frontier[K]
	item   listing.Entry[K]
	err    error
	done   bool
}

// New lists root and returns an Iterator over everything below it.
// The root itself is not yielded.
// If the lister has no record of root, New returns an error
// matching ErrMissingRoot. A root with no children is fine; the
// Iterator will simply be empty.
//
// ctx is passed to every List call made by the Iterator.
func New[K comparable](ctx context.Context, lister listing.Lister[K], root K) (*Iterator[K], error) {
	children, err := lister.List(ctx, root)
	if errors.Is(err, listing.ErrNotFound) {
		return nil, fmt.Errorf("%w %v: %w", ErrMissingRoot, root, err)
	} else if err != nil {
		return nil, fmt.Errorf("dfs: list root %v: %w", root, err)
	}

	return &Iterator[K]{
		ctx:    ctx,
		lister: lister,
		f:      newFrontier(children),
	}, nil
}

// MustNew is like New but panics if the root cannot be listed.
func MustNew[K comparable](ctx context.Context, lister listing.Lister[K], root K) *Iterator[K] {
	i, err := New(ctx, lister, root)
	if err != nil {
		panic(err)
	}
	return i
}

// Next advances to the next entry, listing Branches as needed.
// It returns false when the walk is finished or has failed;
// check Err to tell the two apart. Once Next returns false it
// always returns false.
func (i *Iterator[K]) Next() bool {
	if i == nil || i.done {
		return false
	}

	for {
		if !i.f.trim() {
			i.finish(nil)
			return false
		}

		e, expanded := i.f.cursor()
		if e.IsBranch() && !expanded {
			children, err := i.lister.List(i.ctx, e.ID)
			if err != nil {
				i.finish(i.expandErr(e.ID, err))
				return false
			}
			if len(children) > 0 {
				// leave e where it is, it comes back around once
				// its children have drained
				i.f.park(children)
				continue
			}
		}

		i.item = i.f.pop()
		return true
	}
}

// Item returns the current entry of the iterator.
// Next must always be called before Item.
func (i *Iterator[K]) Item() listing.Entry[K] {
	return i.item
}

// Err returns the error that stopped the walk, if any.
func (i *Iterator[K]) Err() error {
	if i == nil {
		return nil
	}
	return i.err
}

// Depth returns the number of open levels, counting the
// root's children as one.
func (i *Iterator[K]) Depth() int {
	if i == nil {
		return 0
	}
	return i.f.depth()
}

// All returns the remaining entries as a sequence.
// Check Err after ranging over it.
func (i *Iterator[K]) All() iter.Seq[listing.Entry[K]] {
	return func(yield func(listing.Entry[K]) bool) {
		for i.Next() {
			if !yield(i.Item()) {
				return
			}
		}
	}
}

func (i *Iterator[K]) finish(err error) {
	var zero listing.Entry[K]
	i.item = zero
	i.err = err
	i.done = true
	i.f.clear()
}

func (i *Iterator[K]) expandErr(id K, err error) error {
	if errors.Is(err, listing.ErrNotFound) {
		return &MissingNodeError[K]{ID: id, Err: err}
	}
	return fmt.Errorf("dfs: list %v: %w", id, err)
}
