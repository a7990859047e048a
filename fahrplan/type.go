package fahrplan

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type Fahrplan struct {
	Schedule Schedule `json:"schedule"`
}

type Schedule struct {
	Version    string     `json:"version"`
	BaseURL    string     `json:"base_url"`
	Conference Conference `json:"conference"`
}

type Conference struct {
	Acronym          string           `json:"acronym"`
	Title            string           `json:"title"`
	Start            string           `json:"start"`
	End              string           `json:"end"`
	DaysCount        int              `json:"daysCount"`
	TimeslotDuration string           `json:"timeslot_duration"`
	TimeZoneName     string           `json:"time_zone_name"`
	URL              string           `json:"url"`
	Tracks           []Track          `json:"tracks"`
	Rooms            []ConferenceRoom `json:"rooms"`
	Days             []Day            `json:"days"`
}

type Track struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type Assembly struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	GUID string `json:"guid"`
}

// ConferenceRoom is the room metadata from the conference header, not the
// per-day room-to-events mapping.
type ConferenceRoom struct {
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	GUID          string            `json:"guid"`
	Type          string            `json:"type"`
	StreamID      *string           `json:"stream_id"`
	Capacity      int               `json:"capacity"`
	DescriptionEN *string           `json:"description_en,omitempty"`
	DescriptionDE *string           `json:"description_de,omitempty"`
	Features      map[string]string `json:"features,omitempty"`
	Assembly      Assembly          `json:"assembly"`
}

type Day struct {
	Index    int       `json:"index"`
	Date     string    `json:"date"`
	DayStart time.Time `json:"day_start"`
	DayEnd   time.Time `json:"day_end"`
	Rooms    Rooms     `json:"rooms"`
}

// Rooms keeps the feed's room order. A plain map would lose the JSON key
// order, which determines the staging order of flattened events.
type Rooms struct {
	Order  []string
	ByName map[string][]Event
}

func (r *Rooms) UnmarshalJSON(b []byte) error {
	r.Order = nil
	r.ByName = map[string][]Event{}
	iter := jsoniter.ParseBytes(json, b)
	iter.ReadMapCB(func(it *jsoniter.Iterator, room string) bool {
		var events []Event
		it.ReadVal(&events)
		r.Order = append(r.Order, room)
		r.ByName[room] = events
		return true
	})
	if iter.Error != nil {
		return fmt.Errorf("rooms: %w", iter.Error)
	}
	return nil
}

type Person struct {
	GUID       string  `json:"guid"`
	Name       string  `json:"name"`
	PublicName string  `json:"public_name"`
	Avatar     *string `json:"avatar"`
	Biography  *string `json:"biography,omitempty"`
	URL        string  `json:"url"`
}

type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Attachment struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Event struct {
	GUID             string       `json:"guid"`
	ID               int          `json:"id"`
	Date             time.Time    `json:"date"`
	Start            string       `json:"start"`
	Duration         string       `json:"duration"`
	Room             string       `json:"room"`
	Slug             string       `json:"slug"`
	URL              string       `json:"url"`
	Title            string       `json:"title"`
	Subtitle         *string      `json:"subtitle"`
	Language         *string      `json:"language"`
	Track            *string      `json:"track"`
	Type             string       `json:"type"`
	Abstract         *string      `json:"abstract"`
	Description      *string      `json:"description"`
	Logo             *string      `json:"logo"`
	Persons          []Person     `json:"persons"`
	Links            []Link       `json:"links,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	FeedbackURL      string       `json:"feedback_url,omitempty"`
	RecordingLicense string       `json:"recording_license,omitempty"`
	DoNotRecord      bool         `json:"do_not_record,omitempty"`
	DoNotStream      bool         `json:"do_not_stream,omitempty"`
}

// Category tags which feed an event came from.
type Category int

const (
	MainEvent Category = iota
	SelfOrganizedEvent
)

func (c Category) String() string {
	switch c {
	case MainEvent:
		return "MAIN_EVENT"
	case SelfOrganizedEvent:
		return "SELF_ORGANIZED_EVENT"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ExtendedEvent is an Event tagged with its day index and source feed
// during flattening. Neither field exists in the raw feed.
type ExtendedEvent struct {
	Event
	Day      int      `json:"day"`
	Category Category `json:"category"`
}

// LiveStatus is the temporal state of an event relative to a reference
// instant. It is derived on every recomputation and never persisted.
type LiveStatus int

const (
	LiveUnknown LiveStatus = iota
	LiveNot
	LiveNow
	LiveFinished
)

func (l LiveStatus) String() string {
	switch l {
	case LiveUnknown:
		return "UNKNOWN"
	case LiveNot:
		return "NOT_LIVE"
	case LiveNow:
		return "LIVE"
	case LiveFinished:
		return "FINISHED"
	}
	return fmt.Sprintf("LiveStatus(%d)", int(l))
}

func (l LiveStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

type EventWithLiveStatus struct {
	ExtendedEvent
	LiveStatus LiveStatus `json:"liveStatus"`
}

// Language buckets an event's language code for filtering. Anything that
// is not exactly "en" or "de", including an absent language, is Other.
type Language int

const (
	LanguageEN Language = iota
	LanguageDE
	LanguageOther
)

func ClassifyLanguage(raw *string) Language {
	if raw == nil {
		return LanguageOther
	}
	switch *raw {
	case "en":
		return LanguageEN
	case "de":
		return LanguageDE
	}
	return LanguageOther
}
