package dfs

import (
	"go.lepak.sg/frontier/listing"
)

// A recursive post-order walk looks like this:
//	func visit(id K, f func(Entry)) {
//		children := list(id)
//		for i := len(children) - 1; i >= 0; i-- {
//			c := children[i]
//			if c.IsBranch() {
//				visit(c.ID, f)	--(1)
//			}
//			f(c)
//		}
//	}
// Every open call to visit is one level of the frontier: the
// children slice, minus the children already passed to f.
// The child being visited at (1) stays at the end of its slice
// (it is parked) until its own level has drained, then it is
// popped and passed to f like any leaf.

// level is the pending children of one open Branch.
type level[K comparable] struct {
	entries []listing.Entry[K]
	// expanded is set once the last entry has been listed and its
	// children pushed as the next level. It is only ever true for
	// a Branch, and is cleared when that Branch is popped.
	expanded bool
}

// frontier is the stack of open levels, root first.
// The cursor is always the last entry of the top level; it is
// recomputed from positions, never held across a push.
type frontier[K comparable] struct {
	levels []level[K]
}

func newFrontier[K comparable](root []listing.Entry[K]) frontier[K] {
	return frontier[K]{
		levels: []level[K]{{entries: root}},
	}
}

// trim drops drained levels from the top of the stack.
// It returns false if no levels are left.
func (f *frontier[K]) trim() bool {
	for len(f.levels) > 0 && len(f.levels[len(f.levels)-1].entries) == 0 {
		f.levels[len(f.levels)-1] = level[K]{}
		f.levels = f.levels[:len(f.levels)-1]
	}
	return len(f.levels) > 0
}

// cursor returns the entry at the cursor and whether its children
// have already been pushed. The top level must not be empty.
func (f *frontier[K]) cursor() (listing.Entry[K], bool) {
	top := &f.levels[len(f.levels)-1]
	return top.entries[len(top.entries)-1], top.expanded
}

// pop removes the entry at the cursor.
func (f *frontier[K]) pop() listing.Entry[K] {
	top := &f.levels[len(f.levels)-1]
	n := len(top.entries) - 1
	e := top.entries[n]
	var zero listing.Entry[K]
	top.entries[n] = zero
	top.entries = top.entries[:n]
	top.expanded = false
	return e
}

// park marks the entry at the cursor as expanded and opens
// children as a new level above it.
func (f *frontier[K]) park(children []listing.Entry[K]) {
	f.levels[len(f.levels)-1].expanded = true
	f.levels = append(f.levels, level[K]{entries: children})
}

func (f *frontier[K]) depth() int {
	return len(f.levels)
}

func (f *frontier[K]) clear() {
	f.levels = nil
}
