package fahrplan

// Flatten converts the day -> room -> event tree into a flat slice,
// tagging every event with its day index, room name and source feed.
// Output order is day-major, then the feed's room order, then the feed's
// per-room event order. This is only a staging order; presentation order
// comes from Sort.
func Flatten(schedule *Fahrplan, category Category) []ExtendedEvent {
	var events []ExtendedEvent //nolint:prealloc
	for _, day := range schedule.Schedule.Conference.Days {
		for _, room := range day.Rooms.Order {
			for _, event := range day.Rooms.ByName[room] {
				event.Room = room
				events = append(events, ExtendedEvent{
					Event:    event,
					Day:      day.Index,
					Category: category,
				})
			}
		}
	}
	return events
}
