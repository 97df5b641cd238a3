package listing

import (
	"fmt"
)

// Kind tags an Entry as a Leaf or a Branch.
type Kind int

const (
	// Leaf entries have no children and are never listed.
	Leaf Kind = iota
	// Branch entries may have children.
	Branch
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "Leaf"
	case Branch:
		return "Branch"
	default:
		return "<invalid listing.Kind>"
	}
}

// MarshalText encodes k as "leaf" or "branch".
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Leaf:
		return []byte("leaf"), nil
	case Branch:
		return []byte("branch"), nil
	default:
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "leaf":
		*k = Leaf
	case "branch":
		*k = Branch
	default:
		return fmt.Errorf("invalid kind %q", b)
	}
	return nil
}

// Entry is one node of a listed tree. It carries no pointers to
// its parent or children; those are only known to the Lister.
type Entry[K comparable] struct {
	Kind Kind `json:"kind"`
	ID   K    `json:"id"`
}

func LeafOf[K comparable](id K) Entry[K] {
	return Entry[K]{Kind: Leaf, ID: id}
}

func BranchOf[K comparable](id K) Entry[K] {
	return Entry[K]{Kind: Branch, ID: id}
}

func (e Entry[K]) IsBranch() bool {
	return e.Kind == Branch
}

// String renders the entry as L<id> or B<id>.
func (e Entry[K]) String() string {
	if e.IsBranch() {
		return fmt.Sprintf("B%v", e.ID)
	}
	return fmt.Sprintf("L%v", e.ID)
}
