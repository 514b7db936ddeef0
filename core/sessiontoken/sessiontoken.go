// Package sessiontoken resolves the opaque session identity and auth header
// the voice service requires. Token persistence and OAuth flows live in the
// backend; this package only fetches what the session core consumes.
package sessiontoken

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Session is one issued voice session: an opaque identity plus the bearer
// token authorizing it. The identity stays immutable across reconnects.
type Session struct {
	ID    string `json:"session_id"`
	Token string `json:"token"`
}

// Client fetches sessions from a backend endpoint.
type Client struct {
	endpoint string
	http     *http.Client

	mu      sync.Mutex
	session *Session
}

// NewClient creates a token client against the given issuing endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

// Resolve returns the current session, fetching one from the backend on
// first use. The resolved identity is cached for the life of the client.
func (c *Client) Resolve(ctx context.Context) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return *c.session, nil
	}

	span := trace.SpanFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return Session{}, fmt.Errorf("failed to build session request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to request session: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("session request rejected: %s", resp.Status)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.ID == "" {
		return Session{}, fmt.Errorf("session response missing session_id")
	}

	c.session = &session
	return session, nil
}

// AuthHeader returns the auth header for the resolved session. It satisfies
// the realtime client's token source contract.
func (c *Client) AuthHeader(ctx context.Context) (http.Header, error) {
	session, err := c.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if session.Token != "" {
		header.Set("Authorization", "Bearer "+session.Token)
	}
	return header, nil
}
