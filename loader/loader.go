package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sessions-finder/fahrplan"
)

// FixtureVersion marks the empty self-organized substitute served in
// fixture mode.
const FixtureVersion = "fixture"

// ErrNotLoaded is reported before the first load cycle has completed.
var ErrNotLoaded = errors.New("schedule not loaded yet")

type Config struct {
	ScheduleURL              string
	SelfOrganizedScheduleURL string
	UseFakeEvents            bool
	FixtureFile              string
}

// Snapshot is one completed load cycle: both feeds flattened, tagged and
// concatenated main-first. It is replaced wholesale, never mutated.
type Snapshot struct {
	Events               []fahrplan.ExtendedEvent `json:"events"`
	MainVersion          string                   `json:"mainVersion"`
	SelfOrganizedVersion string                   `json:"selfOrganizedVersion"`
	FetchedAt            time.Time                `json:"fetchedAt"`
	LoadID               string                   `json:"loadId"`
}

// Result is what one refresh cycle broadcasts: either a snapshot or the
// aggregated failure, stamped with the cycle's generation so stale
// responses never overwrite fresher data.
type Result struct {
	Generation uint64
	Snapshot   *Snapshot
	Err        error
}

type FeedError struct {
	Feed string
	Err  error
}

func (e FeedError) Error() string {
	return fmt.Sprintf("%s feed: %v", e.Feed, e.Err)
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// AggregateLoadError wraps the failure of either feed. The two feeds are
// presented as one merged dataset, so a single feed failing fails the
// whole load, no partial results.
type AggregateLoadError struct {
	Feeds []FeedError
}

func (e *AggregateLoadError) Error() string {
	msgs := make([]string, 0, len(e.Feeds))
	for _, feed := range e.Feeds {
		msgs = append(msgs, feed.Error())
	}
	return "load schedule: " + strings.Join(msgs, "; ")
}

func (e *AggregateLoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Feeds))
	for _, feed := range e.Feeds {
		errs = append(errs, feed)
	}
	return errs
}

type feedResult struct {
	feed     string
	schedule *fahrplan.Fahrplan
	err      error
}

// Load fetches both feeds concurrently and merges them. Both fetches are
// in flight at once; the load completes when both settle and fails as a
// whole if either does.
func Load(cfg Config) (*Snapshot, error) {
	if cfg.UseFakeEvents {
		return loadFixture(cfg.FixtureFile)
	}

	feeds := []struct {
		name string
		url  string
	}{
		{"main", cfg.ScheduleURL},
		{"self-organized", cfg.SelfOrganizedScheduleURL},
	}

	var wg sync.WaitGroup
	results := make(chan feedResult)
	for _, feed := range feeds {
		wg.Add(1)
		go func(name, url string) {
			defer wg.Done()
			schedule, err := fahrplan.GetSchedule(url)
			results <- feedResult{feed: name, schedule: schedule, err: err}
		}(feed.name, feed.url)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	byFeed := map[string]*fahrplan.Fahrplan{}
	var failed []FeedError
	for result := range results {
		if result.err != nil {
			failed = append(failed, FeedError{Feed: result.feed, Err: result.err})
			continue
		}
		byFeed[result.feed] = result.schedule
	}
	if len(failed) > 0 {
		return nil, &AggregateLoadError{Feeds: failed}
	}

	main := byFeed["main"]
	selfOrganized := byFeed["self-organized"]
	events := fahrplan.Flatten(main, fahrplan.MainEvent)
	events = append(events, fahrplan.Flatten(selfOrganized, fahrplan.SelfOrganizedEvent)...)

	return &Snapshot{
		Events:               events,
		MainVersion:          main.Schedule.Version,
		SelfOrganizedVersion: selfOrganized.Schedule.Version,
		FetchedAt:            time.Now(),
		LoadID:               uuid.NewString(),
	}, nil
}

// loadFixture substitutes a local document for the main feed and an empty
// self-organized feed tagged with the sentinel version.
func loadFixture(file string) (*Snapshot, error) {
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, &AggregateLoadError{Feeds: []FeedError{{Feed: "main", Err: err}}}
	}
	schedule, err := fahrplan.ParseSchedule(body)
	if err != nil {
		return nil, &AggregateLoadError{Feeds: []FeedError{{Feed: "main", Err: err}}}
	}
	return &Snapshot{
		Events:               fahrplan.Flatten(schedule, fahrplan.MainEvent),
		MainVersion:          schedule.Schedule.Version,
		SelfOrganizedVersion: FixtureVersion,
		FetchedAt:            time.Now(),
		LoadID:               uuid.NewString(),
	}, nil
}
