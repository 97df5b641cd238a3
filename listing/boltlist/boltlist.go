// Package boltlist keeps a listed tree in a bbolt database, one key
// per node holding the JSON encoded list of its children.
package boltlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.lepak.sg/frontier/listing"
)

const (
	DefaultBucket = "tree"
)

var _ listing.Lister[string] = (*Store)(nil)

// Store is a listing.Lister over a bbolt bucket. Ids are strings.
// It is safe for concurrent use.
type Store struct {
	db         *bolt.DB
	bucketName []byte
	owned      bool
}

// Open opens (or creates) the database at path and makes sure the
// bucket exists. If bucket is empty, DefaultBucket is used.
func Open(path, bucket string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltlist: open %s: %w", path, err)
	}

	s, err := New(db, bucket)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New uses an already open database. Close will not close it.
func New(db *bolt.DB, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	s := &Store{db: db, bucketName: []byte(bucket)}

	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("boltlist: create bucket %s: %w", bucket, err)
	}
	return s, nil
}

// Put records the children of id, replacing any previous record.
func (s *Store) Put(id string, children ...listing.Entry[string]) error {
	if children == nil {
		children = []listing.Entry[string]{}
	}
	v, err := json.Marshal(children)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucketName).Put([]byte(id), v)
	})
}

// Delete forgets id. Its children keep their own records.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucketName).Delete([]byte(id))
	})
}

func (s *Store) List(ctx context.Context, id string) ([]listing.Entry[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []listing.Entry[string]
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucketName).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", listing.ErrNotFound, id)
		}
		// v is only valid inside the transaction, Unmarshal copies
		return json.Unmarshal(v, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Import copies the tree below root from another Lister, listing
// each Branch once. It stops at the first error.
func (s *Store) Import(ctx context.Context, from listing.Lister[string], root string) (int, error) {
	n := 0
	pending := []string{root}
	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		children, err := from.List(ctx, id)
		if err != nil {
			return n, fmt.Errorf("boltlist: import %s: %w", id, err)
		}
		if err := s.Put(id, children...); err != nil {
			return n, err
		}
		n++

		for _, c := range children {
			if c.IsBranch() {
				pending = append(pending, c.ID)
			}
		}
	}
	return n, nil
}

// Close closes the database if it was opened by Open.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	err := s.db.Close()
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return nil
	}
	return err
}
