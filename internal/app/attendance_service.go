// internal/app/attendance_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"attendance_bot/internal/domain/attendance"
	domainPortal "attendance_bot/internal/domain/portal"
	"attendance_bot/internal/domain/schedule"
	"attendance_bot/internal/infra/clock"
	"attendance_bot/internal/infra/portal"

	"github.com/sirupsen/logrus"
)

// EvalReason explains the outcome of one evaluation attempt.
type EvalReason string

const (
	ReasonNoNotification           EvalReason = "NO_NOTIFICATION"
	ReasonNoNotificationForSession EvalReason = "NO_NOTIFICATION_FOR_SESSION"
	ReasonSessionNotFound          EvalReason = "SESSION_NOT_FOUND"
	ReasonAlreadySubmitted         EvalReason = "ALREADY_SUBMITTED"
	ReasonNotOpen                  EvalReason = "NOT_OPEN"
	ReasonSubmitted                EvalReason = "SUBMITTED"
	ReasonSubmitFailed             EvalReason = "SUBMIT_FAILED"
)

// EvalResult reports whether attendance is confirmed for the evaluated
// session and why. Confirmed covers both a fresh submission and a submission
// already on record.
type EvalResult struct {
	Confirmed bool
	Reason    EvalReason
	Course    string
}

// sessionIndex resolves sessions from the full, unfiltered schedule.
type sessionIndex interface {
	FindByNumber(number string) *schedule.Session
}

// AttendanceService decides, for one active (or absent) session, whether an
// attendance submission is due, and performs it. It is stateless between
// calls; every notification, window and history read is fetched fresh.
type AttendanceService struct {
	client    domainPortal.AttendanceClient
	auth      domainPortal.AuthSession
	schedules sessionIndex
	clk       *clock.Clock
	timeout   time.Duration
	logger    *logrus.Entry
}

func NewAttendanceService(
	client domainPortal.AttendanceClient,
	auth domainPortal.AuthSession,
	schedules sessionIndex,
	clk *clock.Clock,
	timeout time.Duration,
	logger *logrus.Entry,
) *AttendanceService {
	return &AttendanceService{
		client:    client,
		auth:      auth,
		schedules: schedules,
		clk:       clk,
		timeout:   timeout,
		logger:    logger,
	}
}

// Evaluate runs one submission attempt. With an active session it only
// considers the notification for that session; with active == nil it takes
// the first pending notification, the opportunistic out-of-schedule path.
func (s *AttendanceService) Evaluate(ctx context.Context, active *schedule.Session) (EvalResult, error) {
	notifications, err := portal.CallWithTimeout(ctx, s.timeout, "ListNotifications", func(ctx context.Context) ([]attendance.Notification, error) {
		return portal.CallWithRefresh(ctx, s.auth, s.client.ListNotifications)
	})
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	if len(notifications) == 0 {
		s.logger.Debug("No pending attendance notifications")
		return EvalResult{Confirmed: false, Reason: ReasonNoNotification}, nil
	}

	target := notifications[0]
	if active != nil {
		found := false
		for _, n := range notifications {
			number, _ := n.Related()
			if number == active.Number {
				target = n
				found = true
				break
			}
		}
		if !found {
			s.logger.WithField("course", active.CourseName).Info("No notification for the active session")
			return EvalResult{Confirmed: false, Reason: ReasonNoNotificationForSession, Course: active.CourseName}, nil
		}
	}

	number, scheme := target.Related()
	session := s.schedules.FindByNumber(number)
	if session == nil {
		s.logger.WithField("number", number).Warn("Notification references a session absent from the schedule")
		return EvalResult{Confirmed: false, Reason: ReasonSessionNotFound}, nil
	}

	logCtx := s.logger.WithFields(logrus.Fields{
		"course": session.CourseName,
		"number": number,
		"scheme": scheme,
	})

	info, err := portal.CallWithTimeout(ctx, s.timeout, "WindowInfo", func(ctx context.Context) (attendance.WindowInfo, error) {
		return portal.CallWithRefresh(ctx, s.auth, func(ctx context.Context) (attendance.WindowInfo, error) {
			return s.client.WindowInfo(ctx, number, scheme)
		})
	})
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to fetch window info: %w", err)
	}

	if s.alreadySubmittedToday(ctx, number, scheme, info.Key, logCtx) {
		logCtx.Info("Attendance already on record for today")
		return EvalResult{Confirmed: true, Reason: ReasonAlreadySubmitted, Course: session.CourseName}, nil
	}

	if !info.Open {
		logCtx.Info("Submission window not open yet")
		return EvalResult{Confirmed: false, Reason: ReasonNotOpen, Course: session.CourseName}, nil
	}

	result, err := portal.CallWithRefresh(ctx, s.auth, func(ctx context.Context) (attendance.SubmitResult, error) {
		return s.client.Submit(ctx, number, s.auth.StudentNumber(), scheme, session.Origin, info.Key)
	})
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to submit attendance: %w", err)
	}

	if !result.Success {
		logCtx.WithField("message", result.Message).Warn("Portal rejected the submission")
		return EvalResult{Confirmed: false, Reason: ReasonSubmitFailed, Course: session.CourseName}, nil
	}

	logCtx.Info("Attendance submitted")
	return EvalResult{Confirmed: true, Reason: ReasonSubmitted, Course: session.CourseName}, nil
}

// alreadySubmittedToday checks the portal's history for an entry matching
// today's date and the current window key. Read errors count as "not yet
// submitted": a transient outage must not block submission for the rest of
// the session, at the cost of a possible duplicate attempt.
func (s *AttendanceService) alreadySubmittedToday(ctx context.Context, number, scheme, key string, logCtx *logrus.Entry) bool {
	entries, err := portal.CallWithTimeout(ctx, s.timeout, "History", func(ctx context.Context) ([]attendance.HistoryEntry, error) {
		return portal.CallWithRefresh(ctx, s.auth, func(ctx context.Context) ([]attendance.HistoryEntry, error) {
			return s.client.History(ctx, number, scheme, s.auth.StudentNumber())
		})
	})
	if err != nil {
		logCtx.WithError(err).Error("History check failed; assuming not yet submitted")
		return false
	}

	today := s.clk.DateString()
	for _, entry := range entries {
		if entry.SubmittedDate() == today && entry.Key == key {
			return true
		}
	}
	return false
}
