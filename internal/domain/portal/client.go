// internal/domain/portal/client.go
package portal

import (
	"context"

	"attendance_bot/internal/domain/attendance"
	"attendance_bot/internal/domain/schedule"
)

// AuthSession owns the portal credentials. Authenticate is idempotent and safe
// to call repeatedly; each successful call replaces the stored tokens.
type AuthSession interface {
	Authenticate(ctx context.Context) error
	Token() string
	SessionToken() string
	StudentNumber() string
}

// ScheduleClient fetches the full term schedule for the authenticated student.
type ScheduleClient interface {
	ListAll(ctx context.Context) ([]schedule.Session, error)
}

// AttendanceClient covers the portal's attendance surface: the notification
// feed, per-meeting window info, prior-submission history and submission
// itself.
type AttendanceClient interface {
	ListNotifications(ctx context.Context) ([]attendance.Notification, error)
	History(ctx context.Context, sessionNumber, scheme, studentNumber string) ([]attendance.HistoryEntry, error)
	WindowInfo(ctx context.Context, sessionNumber, scheme string) (attendance.WindowInfo, error)
	Submit(ctx context.Context, sessionNumber, studentNumber, scheme, origin, key string) (attendance.SubmitResult, error)
}
