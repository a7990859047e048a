package store

import (
	"errors"
	"testing"
	"time"

	"sessions-finder/loader"
)

func snapshot(id string) *loader.Snapshot {
	return &loader.Snapshot{
		MainVersion:          id,
		SelfOrganizedVersion: id,
		FetchedAt:            time.Now(),
		LoadID:               id,
	}
}

func TestStoreEmptyUntilFirstLoad(t *testing.T) {
	s := &Store{}
	_, err := s.Current()
	if !errors.Is(err, loader.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStoreLastRequestWins(t *testing.T) {
	s := &Store{}
	s.Apply(&loader.Result{Generation: 1, Snapshot: snapshot("one")})
	s.Apply(&loader.Result{Generation: 3, Snapshot: snapshot("three")})
	// A slow response from an older cycle arrives late.
	s.Apply(&loader.Result{Generation: 2, Snapshot: snapshot("two")})

	current, err := s.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.LoadID != "three" {
		t.Errorf("stale snapshot overwrote fresher data, got %q", current.LoadID)
	}
}

func TestStoreFailureIsDistinctFromEmpty(t *testing.T) {
	s := &Store{}
	s.Apply(&loader.Result{Generation: 1, Snapshot: snapshot("one")})
	loadErr := errors.New("upstream down")
	s.Apply(&loader.Result{Generation: 2, Err: loadErr})

	_, err := s.Current()
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected the load failure to surface, got %v", err)
	}

	// A later successful cycle clears the failure.
	s.Apply(&loader.Result{Generation: 3, Snapshot: snapshot("three")})
	current, err := s.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.LoadID != "three" {
		t.Errorf("expected the new snapshot, got %q", current.LoadID)
	}
}

func TestStoreDropsStaleFailure(t *testing.T) {
	s := &Store{}
	s.Apply(&loader.Result{Generation: 2, Snapshot: snapshot("two")})
	s.Apply(&loader.Result{Generation: 1, Err: errors.New("late failure from an old cycle")})

	current, err := s.Current()
	if err != nil {
		t.Fatalf("stale failure must not mask the fresher snapshot: %v", err)
	}
	if current.LoadID != "two" {
		t.Errorf("expected snapshot two, got %q", current.LoadID)
	}
}
