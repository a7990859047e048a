package loader

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sessions-finder/fahrplan"
)

func feedJSON(version, room, title, language, date, duration string) string {
	return fmt.Sprintf(`{
  "schedule": {
    "version": %q,
    "base_url": "https://example.org/",
    "conference": {
      "acronym": "37c3",
      "title": "37th Chaos Communication Congress",
      "days": [
        {
          "index": 0,
          "date": "2023-12-27",
          "rooms": {
            %q: [
              {
                "guid": "guid-%s",
                "id": 1,
                "date": %q,
                "start": "10:00",
                "duration": %q,
                "room": %q,
                "slug": "slug",
                "url": "https://example.org/1",
                "title": %q,
                "subtitle": null,
                "language": %q,
                "track": null,
                "type": "lecture",
                "abstract": "a",
                "description": "d",
                "logo": null,
                "persons": []
              }
            ]
          }
        }
      ]
    }
  }
}`, version, room, title, date, duration, room, title, language)
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoadMergesBothFeeds(t *testing.T) {
	main := feedServer(t, feedJSON("main-1", "A", "Keynote", "en", "2023-12-27T10:00:00Z", "01:00"))
	selfOrganized := feedServer(t, feedJSON("self-1", "B", "Workshop", "de", "2023-12-27T11:00:00Z", "00:30"))

	snapshot, err := Load(Config{
		ScheduleURL:              main.URL,
		SelfOrganizedScheduleURL: selfOrganized.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.MainVersion != "main-1" || snapshot.SelfOrganizedVersion != "self-1" {
		t.Errorf("expected versions main-1/self-1, got %q/%q", snapshot.MainVersion, snapshot.SelfOrganizedVersion)
	}
	if snapshot.LoadID == "" {
		t.Error("expected a load id")
	}
	if len(snapshot.Events) != 2 {
		t.Fatalf("expected 2 merged events, got %d", len(snapshot.Events))
	}
	// Main feed first, then self-organized.
	if snapshot.Events[0].Title != "Keynote" || snapshot.Events[0].Category != fahrplan.MainEvent {
		t.Errorf("expected Keynote (main) first, got %q (%v)", snapshot.Events[0].Title, snapshot.Events[0].Category)
	}
	if snapshot.Events[1].Title != "Workshop" || snapshot.Events[1].Category != fahrplan.SelfOrganizedEvent {
		t.Errorf("expected Workshop (self-organized) second, got %q (%v)", snapshot.Events[1].Title, snapshot.Events[1].Category)
	}
}

func TestLoadFailsAsWholeWhenEitherFeedFails(t *testing.T) {
	good := feedJSON("v", "A", "Keynote", "en", "2023-12-27T10:00:00Z", "01:00")

	tests := []struct {
		name       string
		mainBody   string
		mainStatus int
		selfBody   string
		selfStatus int
		wantFeed   string
	}{
		{"self-organized http error", good, http.StatusOK, "gone", http.StatusInternalServerError, "self-organized"},
		{"main http error", "nope", http.StatusNotFound, good, http.StatusOK, "main"},
		{"main invalid document", `{"schedule":{}}`, http.StatusOK, good, http.StatusOK, "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.mainStatus)
				fmt.Fprint(w, tt.mainBody)
			}))
			defer main.Close()
			selfOrganized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.selfStatus)
				fmt.Fprint(w, tt.selfBody)
			}))
			defer selfOrganized.Close()

			snapshot, err := Load(Config{
				ScheduleURL:              main.URL,
				SelfOrganizedScheduleURL: selfOrganized.URL,
			})
			if snapshot != nil {
				t.Error("no partial snapshot may be returned on failure")
			}
			var aggregate *AggregateLoadError
			if !errors.As(err, &aggregate) {
				t.Fatalf("expected *AggregateLoadError, got %T: %v", err, err)
			}
			found := false
			for _, feed := range aggregate.Feeds {
				if feed.Feed == tt.wantFeed {
					found = true
				}
			}
			if !found {
				t.Errorf("expected failure for %s feed, got %v", tt.wantFeed, aggregate)
			}
		})
	}
}

func TestLoadFixtureMode(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.json")
	body := feedJSON("fixture-v", "A", "Keynote", "en", "2023-12-27T10:00:00Z", "01:00")
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	snapshot, err := Load(Config{UseFakeEvents: true, FixtureFile: file})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.MainVersion != "fixture-v" {
		t.Errorf("expected fixture document version, got %q", snapshot.MainVersion)
	}
	if snapshot.SelfOrganizedVersion != FixtureVersion {
		t.Errorf("expected sentinel version %q, got %q", FixtureVersion, snapshot.SelfOrganizedVersion)
	}
	if len(snapshot.Events) != 1 {
		t.Errorf("expected only the fixture's main events, got %d", len(snapshot.Events))
	}
}

func TestLoadFixtureModeMissingFile(t *testing.T) {
	_, err := Load(Config{UseFakeEvents: true, FixtureFile: filepath.Join(t.TempDir(), "missing.json")})
	var aggregate *AggregateLoadError
	if !errors.As(err, &aggregate) {
		t.Fatalf("expected *AggregateLoadError, got %T", err)
	}
}

// The full pipeline over two live feeds: one English main-track talk that
// is running at the reference instant and one German self-organized
// session that has not started yet.
func TestEndToEndPipeline(t *testing.T) {
	main := feedServer(t, feedJSON("main-1", "A", "Keynote", "en", "2023-12-27T10:00:00Z", "01:00"))
	selfOrganized := feedServer(t, feedJSON("self-1", "B", "Workshop", "de", "2023-12-27T11:00:00Z", "00:30"))

	snapshot, err := Load(Config{
		ScheduleURL:              main.URL,
		SelfOrganizedScheduleURL: selfOrganized.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reference := time.Date(2023, 12, 27, 10, 30, 0, 0, time.UTC)
	rows := fahrplan.AnnotateLive(reference, snapshot.Events)
	rows = fahrplan.Filter(rows, fahrplan.Filters{
		Day:                  0,
		Languages:            fahrplan.LanguageToggles{EN: true},
		TextFilter:           "",
		Fields:               []fahrplan.Field{fahrplan.FieldRoom, fahrplan.FieldTitle, fahrplan.FieldDate},
		IncludeMainSessions:  true,
		IncludeSelfOrganized: true,
		ShowFinished:         true,
	})
	rows = fahrplan.Sort(rows, fahrplan.FieldDate, fahrplan.Ascending)

	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
	if rows[0].Title != "Keynote" {
		t.Errorf("expected Keynote, got %q", rows[0].Title)
	}
	if rows[0].LiveStatus != fahrplan.LiveNow {
		t.Errorf("expected LIVE, got %v", rows[0].LiveStatus)
	}
}
