// Package services contains application services for the sejour client.
// This file defines the authentication service: login, session bootstrap,
// guarded reads, and logout over the local session store.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/hopitalsej/sejour/internal/client/api"
	"github.com/hopitalsej/sejour/internal/common"
)

// ErrLoginInFlight is returned when Login is called while another login is
// still waiting on the server.
var ErrLoginInFlight = errors.New("login already in progress")

// ErrSuperseded is returned when a server response arrives after the local
// session changed underneath it (a logout racing a slow request). The
// response is discarded; the store, not the response, decides the session.
var ErrSuperseded = errors.New("session changed, response discarded")

// State is the client-side authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	AuthFailed
)

// Backend is the remote API surface the service needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, token string) (*api.Profile, error)
	Users(ctx context.Context, token, search string) ([]api.User, error)
	Patients(ctx context.Context, token, search string) ([]api.Patient, error)
	Ping(ctx context.Context) error
}

// SessionStore is the local persistence surface the service needs.
type SessionStore interface {
	Generation() uint64
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	SaveCredentials(ctx context.Context, email, password string) error
	Credentials(ctx context.Context) (email, password string, err error)
	ClearCredentials(ctx context.Context) error
}

// AuthService owns the client session. All state transitions go through it:
// Unauthenticated -> Authenticating -> Authenticated on success, AuthFailed
// on a rejected login. A token rejected by the server on any guarded read
// drops the session back to Unauthenticated.
type AuthService struct {
	backend    Backend
	store      SessionStore
	rememberMe bool

	mu    sync.Mutex
	state State
	token string
}

func NewAuthService(backend Backend, store SessionStore, rememberMe bool) *AuthService {
	return &AuthService{backend: backend, store: store, rememberMe: rememberMe}
}

// State returns the current authentication state.
func (s *AuthService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a session token is held. The token is not
// validated locally; an expired one is only detected when the server
// answers a guarded read with 403.
func (s *AuthService) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// Bootstrap restores the session from the local store at startup. A
// persisted token makes the client start authenticated, matching the app
// surviving a restart without a new login.
func (s *AuthService) Bootstrap(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" {
		s.token = token
		s.state = Authenticated
	}
	return nil
}

// Remembered returns the remember-me credentials for pre-filling the login
// form, empty strings when none are stored.
func (s *AuthService) Remembered(ctx context.Context) (email, password string, err error) {
	return s.store.Credentials(ctx)
}

// Login exchanges credentials for a token and persists it. Only one login
// may be in flight at a time. If the local session changes while the request
// is on the wire, the response is dropped and ErrSuperseded is returned.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	if s.state == Authenticating {
		s.mu.Unlock()
		return ErrLoginInFlight
	}
	s.state = Authenticating
	startGen := s.store.Generation()
	s.mu.Unlock()

	token, err := s.backend.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = AuthFailed
		return err
	}

	if s.store.Generation() != startGen {
		s.state = Unauthenticated
		return ErrSuperseded
	}

	if err := s.store.Save(ctx, token); err != nil {
		s.state = Unauthenticated
		return err
	}
	s.token = token
	s.state = Authenticated

	if s.rememberMe {
		if err := s.store.SaveCredentials(ctx, email, password); err != nil {
			return err
		}
	} else {
		if err := s.store.ClearCredentials(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Logout drops the session locally. Tokens are stateless server-side, so
// there is nothing to revoke remotely.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.token = ""
	s.state = Unauthenticated
	return nil
}

// Profile fetches the caller's identity. A 401/403 from the server wipes
// the local session before the error is returned.
func (s *AuthService) Profile(ctx context.Context) (*api.Profile, error) {
	token, startGen := s.snapshot()

	profile, err := s.backend.Profile(ctx, token)
	if err != nil {
		return nil, s.handleGuardedErr(ctx, err)
	}
	if s.store.Generation() != startGen {
		return nil, ErrSuperseded
	}
	return profile, nil
}

// Users fetches the admin user listing. A 403 here means the role check
// failed, not that the token is dead, so unlike the other guarded reads it
// leaves the session in place.
func (s *AuthService) Users(ctx context.Context, search string) ([]api.User, error) {
	token, startGen := s.snapshot()

	list, err := s.backend.Users(ctx, token, search)
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			return nil, err
		}
		return nil, s.handleGuardedErr(ctx, err)
	}
	if s.store.Generation() != startGen {
		return nil, ErrSuperseded
	}
	return list, nil
}

// Patients fetches the patient directory.
func (s *AuthService) Patients(ctx context.Context, search string) ([]api.Patient, error) {
	token, startGen := s.snapshot()

	list, err := s.backend.Patients(ctx, token, search)
	if err != nil {
		return nil, s.handleGuardedErr(ctx, err)
	}
	if s.store.Generation() != startGen {
		return nil, ErrSuperseded
	}
	return list, nil
}

// Ping proxies a liveness check to the backend.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *AuthService) snapshot() (token string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.store.Generation()
}

// handleGuardedErr wipes the session when the server no longer accepts the
// token. ErrForbidden covers both tampered and expired tokens; there is no
// local expiry check, this is the only place a dead token gets cleaned up.
func (s *AuthService) handleGuardedErr(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrUnauthenticated) || errors.Is(err, common.ErrForbidden) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			return errors.Join(err, clearErr)
		}
		s.token = ""
		s.state = Unauthenticated
	}
	return err
}
