package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance_bot/internal/domain/schedule"
)

type fakeScheduleClient struct {
	sessions []schedule.Session
	err      error
}

func (f *fakeScheduleClient) ListAll(context.Context) ([]schedule.Session, error) {
	return f.sessions, f.err
}

func TestRefreshTodayFiltersByWeekday(t *testing.T) {
	client := &fakeScheduleClient{sessions: []schedule.Session{
		{Number: "101", Weekday: "Senin", StartTime: "09:00", EndTime: "10:00"},
		{Number: "102", Weekday: "Selasa", StartTime: "09:00", EndTime: "10:00"},
		{Number: "103", Weekday: "Senin"}, // untimed
	}}
	service := NewScheduleService(client, &fakeAuth{}, evalTestClock(), time.Second, evalTestLogger())

	// evalTestClock is frozen on a Monday (Senin).
	today, err := service.RefreshToday(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(today) != 1 || today[0].Number != "101" {
		t.Fatalf("expected only the timed Monday session, got %+v", today)
	}

	// The full schedule stays resolvable even off-day.
	if got := service.FindByNumber("102"); got == nil || got.Weekday != "Selasa" {
		t.Fatalf("expected full-schedule lookup to find 102, got %v", got)
	}
	if got := service.FindByNumber("999"); got != nil {
		t.Fatalf("expected nil for unknown session, got %v", got)
	}
}

func TestRefreshTodayPropagatesFetchError(t *testing.T) {
	client := &fakeScheduleClient{err: errors.New("portal down")}
	service := NewScheduleService(client, &fakeAuth{}, evalTestClock(), time.Second, evalTestLogger())
	if _, err := service.RefreshToday(context.Background()); err == nil {
		t.Fatal("expected error when the schedule fetch fails")
	}
}
