// internal/app/schedule_service.go
package app

import (
	"context"
	"fmt"
	"time"

	domainPortal "attendance_bot/internal/domain/portal"
	"attendance_bot/internal/domain/schedule"
	"attendance_bot/internal/infra/clock"
	"attendance_bot/internal/infra/portal"

	"github.com/sirupsen/logrus"
)

// ScheduleService caches the full term schedule and derives the daily
// snapshot from it. The cache is written only from the tick scheduler (and
// bootstrap), which serializes all access through its running flag, so no
// locking happens here.
type ScheduleService struct {
	client  domainPortal.ScheduleClient
	auth    domainPortal.AuthSession
	clk     *clock.Clock
	timeout time.Duration
	logger  *logrus.Entry

	sessions []schedule.Session // full unfiltered term schedule
}

func NewScheduleService(
	client domainPortal.ScheduleClient,
	auth domainPortal.AuthSession,
	clk *clock.Clock,
	timeout time.Duration,
	logger *logrus.Entry,
) *ScheduleService {
	return &ScheduleService{
		client:  client,
		auth:    auth,
		clk:     clk,
		timeout: timeout,
		logger:  logger,
	}
}

// RefreshToday refetches the full schedule and returns today's snapshot:
// sessions on today's weekday that carry both start and end times, in portal
// order.
func (s *ScheduleService) RefreshToday(ctx context.Context) ([]schedule.Session, error) {
	sessions, err := portal.CallWithTimeout(ctx, s.timeout, "ListAll", func(ctx context.Context) ([]schedule.Session, error) {
		return portal.CallWithRefresh(ctx, s.auth, s.client.ListAll)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh schedule: %w", err)
	}
	s.sessions = sessions

	weekday := s.clk.WeekdayName()
	today := schedule.FilterToday(sessions, weekday)
	s.logger.WithFields(logrus.Fields{
		"weekday":        weekday,
		"total_sessions": len(sessions),
		"today_sessions": len(today),
	}).Info("Schedule refreshed")
	for _, entry := range today {
		s.logger.WithFields(logrus.Fields{
			"course": entry.CourseName,
			"start":  entry.StartTime,
			"end":    entry.EndTime,
			"number": entry.Number,
		}).Debug("Session scheduled today")
	}
	return today, nil
}

// FindByNumber resolves a session by portal number from the cached full
// schedule. Returns nil when the number is unknown or the cache is empty.
func (s *ScheduleService) FindByNumber(number string) *schedule.Session {
	return schedule.FindByNumber(s.sessions, number)
}
