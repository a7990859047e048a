package fahrplan

import "fmt"

// ValidationError reports the first schema violation found in a feed
// document. Garbled documents are rejected instead of being coerced into
// placeholder values.
type ValidationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid schedule: %s", e.Reason)
	}
	return fmt.Sprintf("invalid schedule: %s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseSchedule decodes and validates one feed document. Decoding is
// strict about types (a numeric string where a number belongs is an
// error), validation about required fields.
func ParseSchedule(body []byte) (*Fahrplan, error) {
	schedule := new(Fahrplan)
	if err := json.Unmarshal(body, schedule); err != nil {
		return nil, &ValidationError{Reason: "malformed document", Err: err}
	}
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ValidateSchedule checks the required fields of an already decoded
// document. Optional fields (subtitle, language, track, logo, links,
// attachments, recording flags) may be absent or null and stay absent.
func ValidateSchedule(schedule *Fahrplan) error {
	conference := schedule.Schedule.Conference
	switch {
	case conference.Acronym == "":
		return &ValidationError{Path: "conference.acronym", Reason: "missing"}
	case conference.Title == "":
		return &ValidationError{Path: "conference.title", Reason: "missing"}
	case len(conference.Days) == 0:
		return &ValidationError{Path: "conference.days", Reason: "missing or empty"}
	}

	for i, day := range conference.Days {
		if day.Index != i {
			return &ValidationError{
				Path:   fmt.Sprintf("conference.days[%d].index", i),
				Reason: fmt.Sprintf("index %d does not match position %d", day.Index, i),
			}
		}
		for _, room := range day.Rooms.Order {
			for j, event := range day.Rooms.ByName[room] {
				if err := validateEvent(event); err != nil {
					verr := err.(*ValidationError)
					verr.Path = fmt.Sprintf("conference.days[%d].rooms[%q][%d].%s", i, room, j, verr.Path)
					return verr
				}
			}
		}
	}
	return nil
}

func validateEvent(event Event) error {
	switch {
	case event.GUID == "":
		return &ValidationError{Path: "guid", Reason: "missing"}
	case event.Title == "":
		return &ValidationError{Path: "title", Reason: "missing"}
	case event.Date.IsZero():
		return &ValidationError{Path: "date", Reason: "missing"}
	case event.Duration == "":
		return &ValidationError{Path: "duration", Reason: "missing"}
	case event.Room == "":
		return &ValidationError{Path: "room", Reason: "missing"}
	case event.Type == "":
		return &ValidationError{Path: "type", Reason: "missing"}
	case event.Abstract == nil:
		return &ValidationError{Path: "abstract", Reason: "missing"}
	case event.Description == nil:
		return &ValidationError{Path: "description", Reason: "missing"}
	}
	return nil
}
