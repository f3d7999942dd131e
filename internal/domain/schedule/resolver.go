package schedule

// FilterToday returns the sessions matching the given weekday name that carry
// both start and end times, preserving the portal's ordering.
func FilterToday(sessions []Session, weekday string) []Session {
	today := make([]Session, 0)
	for _, s := range sessions {
		if s.Weekday == weekday && s.HasTimes() {
			today = append(today, s)
		}
	}
	return today
}

// ActiveAt returns the first session whose [StartTime, EndTime] interval
// contains now, or nil. Comparison is lexicographic, which is correct for
// zero-padded "HH:MM" strings. Both endpoints are inclusive, but a session
// that is just starting outranks one that is ending at the same instant:
// for back-to-back sessions sharing a boundary, the starting one is the one
// attendance is due for. A malformed schedule with genuinely overlapping
// sessions is not de-duplicated; the first listed match wins.
func ActiveAt(snapshot []Session, now string) *Session {
	for i := range snapshot {
		if now >= snapshot[i].StartTime && now < snapshot[i].EndTime {
			return &snapshot[i]
		}
	}
	for i := range snapshot {
		if now >= snapshot[i].StartTime && now <= snapshot[i].EndTime {
			return &snapshot[i]
		}
	}
	return nil
}

// FindByNumber looks a session up by its portal number in the full, unfiltered
// schedule. Returns nil when absent.
func FindByNumber(sessions []Session, number string) *Session {
	for i := range sessions {
		if sessions[i].Number == number {
			return &sessions[i]
		}
	}
	return nil
}
