// Package natslist keeps a listed tree in a NATS JetStream key-value
// bucket. Each node is one key holding the JSON encoded list of its
// children, so a remote tree can be walked one List call at a time.
package natslist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.lepak.sg/frontier/listing"
)

var _ listing.Lister[string] = (*Store)(nil)

type StorageType int

const (
	// FileStorage specifies on disk storage. It's the default.
	FileStorage StorageType = iota
	// MemoryStorage specifies in memory only.
	MemoryStorage
)

type Config struct {
	Bucket      string
	Description string
	// TTL of each record. Zero keeps records forever.
	TTL      time.Duration
	Storage  StorageType
	Replicas int
}

// Store is a listing.Lister over a NATS key-value bucket.
type Store struct {
	kv nats.KeyValue
}

// New creates the bucket described by config, or binds to it if it
// already exists.
func New(js nats.JetStreamContext, config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("natslist: bucket name required")
	}

	kvConfig := &nats.KeyValueConfig{
		Bucket:      config.Bucket,
		Description: config.Description,
		TTL:         config.TTL,
		Replicas:    config.Replicas,
	}

	switch config.Storage {
	case FileStorage:
		kvConfig.Storage = nats.FileStorage
	case MemoryStorage:
		kvConfig.Storage = nats.MemoryStorage
	}

	kv, err := js.CreateKeyValue(kvConfig)
	if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		kv, err = js.KeyValue(config.Bucket)
	}
	if err != nil {
		return nil, fmt.Errorf("natslist: bucket %s: %w", config.Bucket, err)
	}

	return &Store{kv: kv}, nil
}

// Bind uses an existing bucket.
func Bind(js nats.JetStreamContext, bucket string) (*Store, error) {
	kv, err := js.KeyValue(bucket)
	if err != nil {
		return nil, fmt.Errorf("natslist: bucket %s: %w", bucket, err)
	}
	return &Store{kv: kv}, nil
}

// keys may only use a restricted alphabet, ids may contain anything
func key(id string) string {
	return "n" + base64.RawURLEncoding.EncodeToString([]byte(id))
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
	_, err = s.kv.Put(key(id), v)
	return err
}

// Delete forgets id.
func (s *Store) Delete(id string) error {
	return s.kv.Delete(key(id))
}

func (s *Store) List(ctx context.Context, id string) ([]listing.Entry[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kve, err := s.kv.Get(key(id))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", listing.ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("natslist: get %s: %w", id, err)
	}

	var out []listing.Entry[string]
	if err := json.Unmarshal(kve.Value(), &out); err != nil {
		return nil, fmt.Errorf("natslist: decode %s: %w", id, err)
	}
	return out, nil
}
