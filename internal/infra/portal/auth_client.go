// internal/infra/portal/auth_client.go
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// AuthClient logs in against the portal and holds the resulting credentials.
// The token store is mutex-guarded because a refresh can happen inside a
// wrapped remote call while another adapter reads the headers.
type AuthClient struct {
	api      *apiClient
	username string
	password string
	logger   *logrus.Entry

	mu            sync.RWMutex
	token         string
	sessionToken  string
	studentNumber string
}

func NewAuthClient(baseURL string, httpc *http.Client, username, password string, logger *logrus.Entry) *AuthClient {
	a := &AuthClient{
		username: username,
		password: password,
		logger:   logger,
	}
	// The login request itself carries no credentials.
	a.api = newAPIClient(baseURL, httpc, nil, logger)
	return a
}

// Authenticate performs a fresh login and replaces the stored credentials.
// Idempotent; safe to call repeatedly.
func (a *AuthClient) Authenticate(ctx context.Context) error {
	body := map[string]string{
		"username": a.username,
		"password": a.password,
	}

	data, err := a.api.post(ctx, "/api/v2/auth/login", body)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var payload struct {
		Token         string `json:"token"`
		SessionToken  string `json:"sessionToken"`
		StudentNumber string `json:"nomorMahasiswa"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	if payload.Token == "" || payload.SessionToken == "" {
		return fmt.Errorf("login response missing tokens")
	}

	a.mu.Lock()
	a.token = payload.Token
	a.sessionToken = payload.SessionToken
	a.studentNumber = payload.StudentNumber
	a.mu.Unlock()

	a.logger.WithField("student_number", payload.StudentNumber).Info("Authenticated against portal")
	return nil
}

func (a *AuthClient) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthClient) SessionToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionToken
}

func (a *AuthClient) StudentNumber() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.studentNumber
}
