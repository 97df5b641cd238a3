package dfs

import (
	"go.lepak.sg/frontier/listing"
)

// Collect pulls up to limit entries from i. If limit <= 0, it pulls
// until the walk is finished. The entries pulled before a failure
// are returned along with the error.
func Collect[K comparable](i *Iterator[K], limit int) ([]listing.Entry[K], error) {
	var out []listing.Entry[K]
	for (limit <= 0 || len(out) < limit) && i.Next() {
		out = append(out, i.Item())
	}
	return out, i.Err()
}

// Listed returns a reversed copy of entries. Applied to a full walk,
// siblings come out in the order they were listed, and each Branch
// comes before everything below it.
func Listed[K comparable](entries []listing.Entry[K]) []listing.Entry[K] {
	out := make([]listing.Entry[K], len(entries))
	for j, e := range entries {
		out[len(entries)-1-j] = e
	}
	return out
}
