// internal/infra/portal/http.go
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// envelope is the portal's uniform response wrapper.
type envelope struct {
	Status bool            `json:"status"`
	Pesan  string          `json:"pesan"`
	Data   json.RawMessage `json:"data"`
}

// apiClient is the shared HTTP plumbing for all portal adapters: request
// construction, auth headers, envelope decoding and the expired-token mapping.
type apiClient struct {
	baseURL string
	httpc   *http.Client
	creds   credentialSource
	logger  *logrus.Entry
}

// credentialSource supplies the two tokens every authenticated portal request
// carries. The auth client implements it; its own login request uses none.
type credentialSource interface {
	Token() string
	SessionToken() string
}

func newAPIClient(baseURL string, httpc *http.Client, creds *AuthClient, logger *logrus.Entry) *apiClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	c := &apiClient{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc, logger: logger}
	if creds != nil { // a typed nil must not become a non-nil interface
		c.creds = creds
	}
	return c
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building GET %s: %w", path, err)
	}
	return c.do(req, path)
}

func (c *apiClient) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding body for POST %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path)
}

func (c *apiClient) do(req *http.Request, path string) (json.RawMessage, error) {
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if st := c.creds.SessionToken(); st != "" {
			req.Header.Set("X-Session-Token", st)
		}
	}

	c.logger.Debugf("%s %s", req.Method, req.URL.String())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response of %s %s: %w", req.Method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s %s: malformed response (HTTP %d): %w", req.Method, path, resp.StatusCode, err)
	}

	// The portal signals a lapsed token either with its literal message or by
	// flipping the envelope status on an unauthorized request.
	if strings.Contains(env.Pesan, tokenInvalidMessage) {
		return nil, fmt.Errorf("%s %s: %s: %w", req.Method, path, env.Pesan, ErrTokenExpired)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%s %s: HTTP 401: %w", req.Method, path, ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: HTTP %d: %s", req.Method, path, resp.StatusCode, env.Pesan)
	}
	if !env.Status {
		return nil, fmt.Errorf("%s %s: portal rejected request: %s", req.Method, path, env.Pesan)
	}

	return env.Data, nil
}
