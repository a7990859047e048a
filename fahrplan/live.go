package fahrplan

import (
	"strings"
	"time"
)

// Grace is subtracted from wall-clock time before live classification so
// that clock skew between client and feed does not flip an event to
// FINISHED early. Applying it is the caller's job, not ClassifyLive's.
const Grace = 5 * time.Minute

// parseDurationHM parses the feed's "HH:MM" duration encoding. A missing
// or garbled part counts as zero, it never fails.
func parseDurationHM(duration string) time.Duration {
	parts := strings.Split(duration, ":")
	var span time.Duration
	if len(parts) > 0 {
		if hour, err := time.ParseDuration(parts[0] + "h"); err == nil {
			span += hour
		}
	}
	if len(parts) > 1 {
		if minute, err := time.ParseDuration(parts[1] + "m"); err == nil {
			span += minute
		}
	}
	if span < 0 {
		span = 0
	}
	return span
}

// ClassifyLive derives the temporal state of an event relative to the
// reference instant. Events without a usable start instant or without any
// duration are UNKNOWN before any arithmetic is attempted.
func ClassifyLive(reference time.Time, event Event) LiveStatus {
	if event.Date.IsZero() || event.Duration == "" {
		return LiveUnknown
	}
	end := event.Date.Add(parseDurationHM(event.Duration))
	switch {
	case reference.Before(event.Date):
		return LiveNot
	case reference.Before(end):
		return LiveNow
	}
	return LiveFinished
}

// AnnotateLive classifies a whole pass against one reference instant so
// all rows of a single recomputation are mutually consistent.
func AnnotateLive(reference time.Time, events []ExtendedEvent) []EventWithLiveStatus {
	annotated := make([]EventWithLiveStatus, 0, len(events))
	for _, event := range events {
		annotated = append(annotated, EventWithLiveStatus{
			ExtendedEvent: event,
			LiveStatus:    ClassifyLive(reference, event.Event),
		})
	}
	return annotated
}
