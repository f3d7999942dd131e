// internal/infra/clock/clock.go
package clock

import (
	"fmt"
	"time"
)

// WeekdayNames maps time.Weekday (Sunday = 0) to the portal's day spellings.
var WeekdayNames = [7]string{
	"Minggu",
	"Senin",
	"Selasa",
	"Rabu",
	"Kamis",
	"Jum'at",
	"Sabtu",
}

// Clock resolves wall-clock readings in a fixed civil timezone, independent of
// the host zone. The now seam exists for tests; production clocks read
// time.Now.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New loads the named timezone and returns a Clock pinned to it.
func New(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixed returns a Clock whose readings come from the given function,
// evaluated in the given location. Test constructor.
func NewFixed(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{loc: loc, now: now}
}

// Location returns the clock's fixed timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the clock's timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// ClockString returns the current "HH:MM" wall-clock string.
func (c *Clock) ClockString() string {
	return c.Now().Format("15:04")
}

// DateString returns the current "YYYY-MM-DD" date string.
func (c *Clock) DateString() string {
	return c.Now().Format("2006-01-02")
}

// WeekdayName returns the portal's name for the current weekday.
func (c *Clock) WeekdayName() string {
	return WeekdayNames[int(c.Now().Weekday())]
}
