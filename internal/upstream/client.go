package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnauthorized is returned when the upstream rejects the bearer token and
// the single refresh attempt also fails. The session is torn down before it
// is returned.
var ErrUnauthorized = errors.New("upstream session expired")

// APIError is a business error the core API reported inside a success:false
// envelope.
type APIError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope is the core API response wrapper. Data is only trusted when
// Success is true.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// Client talks to the core restaurant API. All staff workflows go through it;
// it owns the session lifecycle including the refresh-and-retry-once on 401.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, session *Session, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log,
	}
}

// Session exposes the client's session for lifecycle management (login
// installs tokens, logout tears them down).
func (c *Client) Session() *Session {
	return c.session
}

// do performs one API call: marshal body, attach bearer token, decode the
// envelope into out. A 401 triggers exactly one refresh attempt followed by a
// retry; a second 401, or a failed refresh, tears the session down.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, status, err := c.roundTrip(ctx, method, path, query, body, c.session.AccessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			c.session.Teardown()
			c.log.Warn().Str("path", path).Msg("token refresh failed, session torn down")
			return ErrUnauthorized
		}
		resp, status, err = c.roundTrip(ctx, method, path, query, body, c.session.AccessToken())
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.session.Teardown()
			return ErrUnauthorized
		}
	}

	return decodeEnvelope(resp, out)
}

// roundTrip executes a single HTTP exchange and returns the raw body.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body interface{}, token string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

// refresh exchanges the stored refresh token for a new token pair. Serialized
// on the session mutex implicitly via Init.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return errors.New("no refresh token")
	}

	raw, status, err := c.roundTrip(ctx, http.MethodPost, "/auth/refresh", nil, map[string]string{
		"refreshToken": refreshToken,
	}, "")
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return errors.New("refresh token rejected")
	}

	var tokens tokenPair
	if err := decodeEnvelope(raw, &tokens); err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return errors.New("refresh returned empty access token")
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	c.session.Init(tokens.AccessToken, tokens.RefreshToken)
	return nil
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// decodeEnvelope parses the standard response wrapper and unmarshals data
// into out when the call succeeded.
func decodeEnvelope(raw []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Error != nil && env.Error.Message != "" {
			return env.Error
		}
		return &APIError{Message: "upstream request failed"}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("missing data in response")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
