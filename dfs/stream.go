package dfs

import (
	"sync"

	"go.lepak.sg/frontier/listing"
)

// Stream drives an Iterator from its own goroutine and sends the
// entries on a channel. The Iterator is still only used by that
// one goroutine.
type Stream[K comparable] struct {
	items <-chan listing.Entry[K]
	stop  chan<- struct{}
	once  sync.Once
	it    *Iterator[K]
}

// Items returns the channel on which entries are sent.
// It is closed when the walk finishes, fails, or is stopped.
func (s *Stream[K]) Items() <-chan listing.Entry[K] {
	return s.items
}

// Stop ends the walk early. It may be called any number of times,
// from any goroutine. If the Items channel is closed, this doesn't
// need to be called.
func (s *Stream[K]) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
}

// Err returns the error that stopped the walk.
// It must only be called after the Items channel is closed.
func (s *Stream[K]) Err() error {
	return s.it.Err()
}

// NewStream starts coroutine-style iteration over i.
// The usage is as follows:
//
//	s := dfs.NewStream(i)
//	for e := range s.Items() {
//		... do stuff with e ...
//		if e meets some stopping condition {
//			s.Stop()
//		}
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
//
// The goroutine exits when either Stop is called or the walk is
// finished. If you follow the usage above, it will not live beyond
// the end of the for-range loop.
// The Iterator must not be used directly after it is passed here.
func NewStream[K comparable](i *Iterator[K]) *Stream[K] {
	out := make(chan listing.Entry[K])
	stop := make(chan struct{})
	s := &Stream[K]{
		items: out,
		stop:  stop,
		it:    i,
	}

	if i == nil {
		close(out)
		return s
	}

	go func(out chan<- listing.Entry[K], stop <-chan struct{}, i *Iterator[K]) {
		defer close(out)
		for i.Next() {
			select {
			case out <- i.Item():
			case <-stop:
				return
			}
		}
	}(out, stop, i)

	return s
}
