package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
)

// DefaultTimeout bounds every request the agent makes.
const DefaultTimeout = 5 * time.Second

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client talks to the hostwatch HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient uses one with
// DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Enroll exchanges an install token for credentials.
func (c *Client) Enroll(ctx context.Context, id HostIdentity, installToken string) (*Credentials, error) {
	payload, err := json.Marshal(fleet.EnrollRequest{
		Hostname:     id.Hostname,
		Username:     id.Username,
		IP:           id.IP,
		InstallToken: installToken,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, "/api/register", payload, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return nil, fmt.Errorf("decode enrollment response: %w", err)
	}
	if creds.ServerID == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("enrollment response is missing credentials")
	}
	return &creds, nil
}

// Push sends body signed with the server's secret. The body must not be
// re-encoded after signing.
func (c *Client) Push(ctx context.Context, creds *Credentials, body []byte) error {
	headers := map[string]string{
		signature.ServerIDHeader: creds.ServerID,
		signature.Header:         signature.Sign([]byte(creds.SecretKey), body),
	}
	resp, err := c.post(ctx, "/api/metrics", body, headers)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return checkStatus(resp)
}

func (c *Client) post(ctx context.Context, path string, body []byte, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.http.Do(req)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
