package fahrplan

import (
	"strings"
	"time"
)

// Field names an event attribute usable as a table column, a text search
// target, or a sort key.
type Field string

const (
	FieldRoom        Field = "room"
	FieldTitle       Field = "title"
	FieldSubtitle    Field = "subtitle"
	FieldDate        Field = "date"
	FieldStart       Field = "start"
	FieldDuration    Field = "duration"
	FieldTrack       Field = "track"
	FieldType        Field = "type"
	FieldLanguage    Field = "language"
	FieldAbstract    Field = "abstract"
	FieldDescription Field = "description"
	FieldSlug        Field = "slug"
	FieldURL         Field = "url"
)

// AvailableFields lists every field the text filter and sorter accept.
var AvailableFields = []Field{
	FieldRoom, FieldTitle, FieldSubtitle, FieldDate, FieldStart,
	FieldDuration, FieldTrack, FieldType, FieldLanguage,
	FieldAbstract, FieldDescription, FieldSlug, FieldURL,
}

// textAccessors maps a field to a typed string extractor, resolved once
// instead of reflecting on every match. Fields without a string value
// (absent optionals, zero dates) report ok=false and never match.
var textAccessors = map[Field]func(event *EventWithLiveStatus) (string, bool){
	FieldRoom:     func(e *EventWithLiveStatus) (string, bool) { return e.Room, true },
	FieldTitle:    func(e *EventWithLiveStatus) (string, bool) { return e.Title, true },
	FieldStart:    func(e *EventWithLiveStatus) (string, bool) { return e.Start, true },
	FieldDuration: func(e *EventWithLiveStatus) (string, bool) { return e.Duration, true },
	FieldType:     func(e *EventWithLiveStatus) (string, bool) { return e.Type, true },
	FieldSlug:     func(e *EventWithLiveStatus) (string, bool) { return e.Slug, true },
	FieldURL:      func(e *EventWithLiveStatus) (string, bool) { return e.URL, true },
	FieldSubtitle: func(e *EventWithLiveStatus) (string, bool) { return optional(e.Subtitle) },
	FieldTrack:    func(e *EventWithLiveStatus) (string, bool) { return optional(e.Track) },
	FieldLanguage: func(e *EventWithLiveStatus) (string, bool) { return optional(e.Language) },
	FieldAbstract: func(e *EventWithLiveStatus) (string, bool) { return optional(e.Abstract) },
	FieldDescription: func(e *EventWithLiveStatus) (string, bool) {
		return optional(e.Description)
	},
	FieldDate: func(e *EventWithLiveStatus) (string, bool) {
		if e.Date.IsZero() {
			return "", false
		}
		return e.Date.Format(time.RFC3339), true
	},
}

func optional(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// ParseField resolves a field name from user input.
func ParseField(name string) (Field, bool) {
	for _, field := range AvailableFields {
		if string(field) == name {
			return field, true
		}
	}
	return "", false
}

type LanguageToggles struct {
	EN    bool `json:"en"`
	DE    bool `json:"de"`
	Other bool `json:"other"`
}

// Filters is the user-editable filter configuration. It is passed by
// value into the pipeline on every recomputation and never mutated.
type Filters struct {
	Day                  int             `json:"day"`
	Languages            LanguageToggles `json:"languages"`
	TextFilter           string          `json:"textFilter"`
	Fields               []Field         `json:"fields"`
	IncludeMainSessions  bool            `json:"includeMainSessions"`
	IncludeSelfOrganized bool            `json:"includeSelfOrganized"`
	ShowFinished         bool            `json:"showFinished"`
}

// DefaultFilters mirrors the initial filter state of the original finder
// UI: current congress day, English only, both feeds, running sessions,
// room/title/date columns.
func DefaultFilters(now time.Time) Filters {
	return Filters{
		Day:                  DefaultDay(now),
		Languages:            LanguageToggles{EN: true},
		Fields:               []Field{FieldRoom, FieldTitle, FieldDate},
		IncludeMainSessions:  true,
		IncludeSelfOrganized: true,
	}
}

// Filter applies the filter stages as a strict sequential narrowing. The
// order is part of the contract: day first, then finished, language,
// category, free text. Every stage only sees the previous stage's
// survivors. The input slice is never mutated.
func Filter(events []EventWithLiveStatus, filters Filters) []EventWithLiveStatus {
	narrowed := filterDay(events, filters.Day)
	narrowed = filterFinished(narrowed, filters.ShowFinished)
	narrowed = filterLanguage(narrowed, filters.Languages)
	narrowed = filterCategory(narrowed, filters.IncludeMainSessions, filters.IncludeSelfOrganized)
	narrowed = filterText(narrowed, filters.TextFilter, filters.Fields)
	return narrowed
}

func filterDay(events []EventWithLiveStatus, day int) []EventWithLiveStatus {
	kept := []EventWithLiveStatus{}
	for _, event := range events {
		if event.Day == day {
			kept = append(kept, event)
		}
	}
	return kept
}

func filterFinished(events []EventWithLiveStatus, showFinished bool) []EventWithLiveStatus {
	if showFinished {
		return events
	}
	kept := []EventWithLiveStatus{}
	for _, event := range events {
		if event.LiveStatus != LiveFinished {
			kept = append(kept, event)
		}
	}
	return kept
}

func filterLanguage(events []EventWithLiveStatus, toggles LanguageToggles) []EventWithLiveStatus {
	kept := []EventWithLiveStatus{}
	for _, event := range events {
		switch ClassifyLanguage(event.Language) {
		case LanguageEN:
			if toggles.EN {
				kept = append(kept, event)
			}
		case LanguageDE:
			if toggles.DE {
				kept = append(kept, event)
			}
		case LanguageOther:
			if toggles.Other {
				kept = append(kept, event)
			}
		}
	}
	return kept
}

func filterCategory(events []EventWithLiveStatus, includeMain, includeSelfOrganized bool) []EventWithLiveStatus {
	if includeMain && includeSelfOrganized {
		return events
	}
	// Both toggles off yields an explicit empty result, not an error.
	if !includeMain && !includeSelfOrganized {
		return []EventWithLiveStatus{}
	}
	want := MainEvent
	if includeSelfOrganized {
		want = SelfOrganizedEvent
	}
	kept := []EventWithLiveStatus{}
	for _, event := range events {
		if event.Category == want {
			kept = append(kept, event)
		}
	}
	return kept
}

func filterText(events []EventWithLiveStatus, query string, fields []Field) []EventWithLiveStatus {
	if query == "" {
		return events
	}
	lowered := strings.ToLower(query)
	kept := []EventWithLiveStatus{}
	for i := range events {
		if matchesText(&events[i], lowered, fields) {
			kept = append(kept, events[i])
		}
	}
	return kept
}

func matchesText(event *EventWithLiveStatus, lowered string, fields []Field) bool {
	for _, field := range fields {
		accessor, ok := textAccessors[field]
		if !ok {
			continue
		}
		value, ok := accessor(event)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), lowered) {
			return true
		}
	}
	return false
}
