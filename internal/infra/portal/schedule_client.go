// internal/infra/portal/schedule_client.go
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"attendance_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// ScheduleClient fetches the student's full term schedule.
type ScheduleClient struct {
	api    *apiClient
	logger *logrus.Entry
}

func NewScheduleClient(baseURL string, httpc *http.Client, creds *AuthClient, logger *logrus.Entry) *ScheduleClient {
	return &ScheduleClient{
		api:    newAPIClient(baseURL, httpc, creds, logger),
		logger: logger,
	}
}

// ListAll returns every scheduled session for the term. A data element that is
// not an array (the portal occasionally returns an object-shaped error there)
// is treated as an empty schedule, not a failure.
func (c *ScheduleClient) ListAll(ctx context.Context) ([]schedule.Session, error) {
	data, err := c.api.get(ctx, "/api/v2/jadwal/kuliah", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	var sessions []schedule.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		c.logger.WithError(err).Warn("Schedule payload is not a session array; treating as empty")
		return []schedule.Session{}, nil
	}
	return sessions, nil
}
