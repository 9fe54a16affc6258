package phiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	tokenTTL      = 5 * time.Minute
	tokenCacheKey = "access_token"
)

var ErrNoCredentials = errors.New("phiclient: no token and no Supabase credentials configured")

type passwordGrantResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the bearer token, signing in with the Supabase password grant
// when no static token is configured. Tokens are reused for five minutes.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.cfg.Token != "" {
		return c.cfg.Token, nil
	}
	if x, found := c.tokens.Get(tokenCacheKey); found {
		return x.(string), nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if x, found := c.tokens.Get(tokenCacheKey); found {
		return x.(string), nil
	}

	if c.cfg.SupabaseURL == "" || c.cfg.Email == "" || c.cfg.Password == "" {
		return "", ErrNoCredentials
	}

	payload, err := json.Marshal(map[string]string{
		"email":    c.cfg.Email,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SupabaseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.SupabaseAnonKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Kind: "auth", Message: strings.TrimSpace(string(raw))}
	}

	var grant passwordGrantResponse
	if err := json.Unmarshal(raw, &grant); err != nil {
		return "", fmt.Errorf("decode sign-in response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", errors.New("sign in: response carried no access token")
	}

	ttl := tokenTTL
	if grant.ExpiresIn > 0 {
		if left := time.Duration(grant.ExpiresIn) * time.Second; left < ttl {
			ttl = left
		}
	}
	c.tokens.Set(tokenCacheKey, grant.AccessToken, ttl)
	return grant.AccessToken, nil
}
