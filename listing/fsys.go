package listing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

var _ Lister[string] = FS{}

// FS lists directories of an fs.FS. Ids are slash-separated
// paths relative to the root of the file system; the root itself
// is ".".
//
// Directories are Branches, everything else is a Leaf.
// Children are returned in the order of fs.ReadDir, which sorts
// by file name.
type FS struct {
	FS fs.FS
}

func (f FS) List(ctx context.Context, id string) ([]Entry[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := fs.Stat(f.FS, id)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, id, err)
	} else if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []Entry[string]{}, nil
	}

	des, err := fs.ReadDir(f.FS, id)
	if err != nil {
		return nil, err
	}

	out := make([]Entry[string], 0, len(des))
	for _, de := range des {
		child := path.Join(id, de.Name())
		if de.IsDir() {
			out = append(out, BranchOf(child))
		} else {
			out = append(out, LeafOf(child))
		}
	}
	return out, nil
}
