// Package api is the HTTP client for the sejour backend. It attaches the
// session token to outgoing requests and maps response statuses onto the
// shared sentinel errors so the service layer can react with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hopitalsej/sejour/internal/common"
)

// ErrUnavailable indicates the server could not be reached or failed
// internally; the caller may retry later, nothing about the session can be
// concluded from it.
var ErrUnavailable = errors.New("server unavailable")

// Profile is the identity returned by GET /profile.
type Profile struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// User is an entry of the admin user listing.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Verified bool     `json:"verified"`
}

// Patient is an entry of the patient directory listing.
type Patient struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	RoomNumber string `json:"roomNumber"`
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a session token.
//
// Status mapping: 400 → common.ErrValidation, 401 →
// common.ErrInvalidCredentials, 403 → common.ErrAccountNotVerified,
// anything else non-200 → ErrUnavailable.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return "", common.ErrValidation
	case http.StatusUnauthorized:
		return "", common.ErrInvalidCredentials
	case http.StatusForbidden:
		return "", common.ErrAccountNotVerified
	default:
		return "", ErrUnavailable
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("error decoding login response: %w", err)
	}

	return out.Token, nil
}

// Profile fetches the caller's identity using the given token.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.getJSON(ctx, "/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users fetches the admin user listing, optionally filtered.
func (c *Client) Users(ctx context.Context, token, search string) ([]User, error) {
	var out []User
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if err := c.getJSON(ctx, "/users", token, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Patients fetches the patient directory, optionally filtered.
func (c *Client) Patients(ctx context.Context, token, search string) ([]Patient, error) {
	var out []Patient
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if err := c.getJSON(ctx, "/patients", token, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return ErrUnavailable
	}
	return nil
}

// getJSON performs a guarded GET.
//
// Status mapping for guarded endpoints: 401 → common.ErrUnauthenticated
// (no/garbled token), 403 → common.ErrForbidden (token rejected; the caller
// must clear its stored session), 404 → common.ErrorNotFound, anything else
// non-200 → ErrUnavailable.
func (c *Client) getJSON(ctx context.Context, path, token string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return ErrUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
