package upstream

import (
	"context"
	"net/http"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Staff        StaffAccount `json:"staff"`
}

// Login authenticates staff credentials against the core API and installs
// the returned token pair into the session.
func (c *Client) Login(ctx context.Context, username, password string) (*StaffAccount, error) {
	raw, status, err := c.roundTrip(ctx, http.MethodPost, "/auth/login", nil, loginPayload{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var result loginResult
	if err := decodeEnvelope(raw, &result); err != nil {
		return nil, err
	}

	c.session.Init(result.AccessToken, result.RefreshToken)
	return &result.Staff, nil
}
