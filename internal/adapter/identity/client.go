// Package identity wraps the hosted auth provider: sign-up, sign-in,
// sign-out and the server-side account purge. The provider owns the
// credential store and email confirmation; this client only speaks its HTTP
// JSON contract.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"automarket/internal/listing/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// Client calls the hosted identity service.
type Client struct {
	httpClient *http.Client
	serviceKey string

	// Overridable for testing.
	baseURL       string
	deleteUserURL string
}

// NewClient builds an identity client. deleteUserURL is the account-purge
// function endpoint, authenticated with the service key.
func NewClient(baseURL, deleteUserURL, serviceKey string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		serviceKey:    serviceKey,
		baseURL:       baseURL,
		deleteUserURL: deleteUserURL,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignUp registers a new account. The provider sends its own confirmation
// email; no session is returned until the user signs in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, c.baseURL+"/signup", credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrEmailTaken
	default:
		return fmt.Errorf("identity signup returned status %d", resp.StatusCode)
	}
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := c.postJSON(ctx, c.baseURL+"/token", credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity signin returned status %d", resp.StatusCode)
	}

	var decoded sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}
	return &domain.Session{
		UserID:      decoded.User.ID,
		Email:       decoded.User.Email,
		AccessToken: decoded.AccessToken,
	}, nil
}

// SignOut revokes the session token on the provider side. Local cookie
// teardown happens regardless of the outcome.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.postJSON(ctx, c.baseURL+"/logout", struct{}{}, accessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity signout returned status %d", resp.StatusCode)
	}
	return nil
}

// DeleteUser performs the server-side identity purge. The cascade treats
// this as its point of no return.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.postJSON(ctx, c.deleteUserURL, map[string]string{"user_id": userID}, c.serviceKey)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity delete-user returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body interface{}, bearer string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	return resp, nil
}
