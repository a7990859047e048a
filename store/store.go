package store

import (
	"log"
	"sync"

	"github.com/grafov/bcast"

	"sessions-finder/loader"
)

// Store holds the latest load result. Snapshots are replaced wholesale;
// a result carrying an older generation than the stored one is dropped,
// so a slow stale load can never overwrite fresher data.
type Store struct {
	snapshot   *loader.Snapshot
	loadErr    error
	generation uint64
	sync.RWMutex
}

func NewStore(resultChannel *bcast.Member) *Store {
	store := &Store{}
	go func(resultChannel *bcast.Member) {
		for received := range resultChannel.Read {
			result := received.(*loader.Result)
			store.Apply(result)
		}
	}(resultChannel)
	return store
}

func (s *Store) Apply(result *loader.Result) {
	s.Lock()
	defer s.Unlock()
	if result.Generation <= s.generation {
		log.Printf("dropping stale load result (generation %d, have %d)", result.Generation, s.generation)
		return
	}
	s.generation = result.Generation
	if result.Err != nil {
		s.loadErr = result.Err
		return
	}
	s.loadErr = nil
	s.snapshot = result.Snapshot
}

// Current returns the latest good snapshot. After a failed cycle the
// error is reported even if an older snapshot exists, so the caller can
// distinguish a load failure from a filtered-empty result.
func (s *Store) Current() (*loader.Snapshot, error) {
	s.RLock()
	defer s.RUnlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.snapshot == nil {
		return nil, loader.ErrNotLoaded
	}
	return s.snapshot, nil
}
