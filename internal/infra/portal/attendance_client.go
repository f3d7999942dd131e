// internal/infra/portal/attendance_client.go
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"attendance_bot/internal/domain/attendance"

	"github.com/sirupsen/logrus"
)

// AttendanceClient covers the portal's attendance endpoints: notification
// feed, submission-window lookup, prior-submission history and submission.
type AttendanceClient struct {
	api    *apiClient
	logger *logrus.Entry
}

func NewAttendanceClient(baseURL string, httpc *http.Client, creds *AuthClient, logger *logrus.Entry) *AttendanceClient {
	return &AttendanceClient{
		api:    newAPIClient(baseURL, httpc, creds, logger),
		logger: logger,
	}
}

// ListNotifications returns the pending attendance notifications. A non-array
// data element decodes to an empty feed.
func (c *AttendanceClient) ListNotifications(ctx context.Context) ([]attendance.Notification, error) {
	data, err := c.api.get(ctx, "/api/v2/notifikasi/presensi", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}

	var notifications []attendance.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		c.logger.WithError(err).Warn("Notification payload is not an array; treating as empty")
		return []attendance.Notification{}, nil
	}
	return notifications, nil
}

// History returns the student's prior submissions for a course offering.
func (c *AttendanceClient) History(ctx context.Context, sessionNumber, scheme, studentNumber string) ([]attendance.HistoryEntry, error) {
	query := url.Values{}
	query.Set("nomor", sessionNumber)
	query.Set("jenisSchema", scheme)
	query.Set("nomorMahasiswa", studentNumber)

	data, err := c.api.get(ctx, "/api/v2/presensi/riwayat", query)
	if err != nil {
		return nil, fmt.Errorf("fetching attendance history: %w", err)
	}

	var entries []attendance.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding attendance history: %w", err)
	}
	return entries, nil
}

// WindowInfo returns the current meeting's submission window for a course
// offering.
func (c *AttendanceClient) WindowInfo(ctx context.Context, sessionNumber, scheme string) (attendance.WindowInfo, error) {
	query := url.Values{}
	query.Set("nomor", sessionNumber)
	query.Set("jenisSchema", scheme)

	data, err := c.api.get(ctx, "/api/v2/presensi/info", query)
	if err != nil {
		return attendance.WindowInfo{}, fmt.Errorf("fetching window info: %w", err)
	}

	var info attendance.WindowInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return attendance.WindowInfo{}, fmt.Errorf("decoding window info: %w", err)
	}
	return info, nil
}

// Submit confirms attendance for the meeting identified by key.
func (c *AttendanceClient) Submit(ctx context.Context, sessionNumber, studentNumber, scheme, origin, key string) (attendance.SubmitResult, error) {
	body := map[string]string{
		"nomor":          sessionNumber,
		"nomorMahasiswa": studentNumber,
		"jenisSchema":    scheme,
		"kuliahAsal":     origin,
		"key":            key,
	}

	data, err := c.api.post(ctx, "/api/v2/presensi", body)
	if err != nil {
		return attendance.SubmitResult{}, fmt.Errorf("submitting attendance: %w", err)
	}

	var result attendance.SubmitResult
	if err := json.Unmarshal(data, &result); err != nil {
		return attendance.SubmitResult{}, fmt.Errorf("decoding submit response: %w", err)
	}
	return result, nil
}
