package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/server/auth"
	"github.com/hopitalsej/sejour/internal/server/config"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service verifies credentials and issues session tokens. It is stateless:
// every call is independent, concurrent logins for the same account all
// succeed, and nothing about a session is persisted server-side.
type Service struct {
	repo                  Repository
	secretKey             []byte
	tokenValidityDuration time.Duration
}

// NewService constructs a Service using the account repository and server config.
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		secretKey:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Login verifies the email/password pair and returns a signed session token.
//
// Failure contract:
//   - empty or malformed input: common.ErrValidation
//   - unknown email or wrong password: common.ErrInvalidCredentials, with no
//     way to tell the two apart
//   - correct password on an unverified account: common.ErrAccountNotVerified;
//     the verified flag is checked only after the password matched, so
//     verification status is not leaked to guessers
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: malformed email", common.ErrValidation)
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error looking up account: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}

	if !account.Verified {
		return "", common.ErrAccountNotVerified
	}

	token, err := auth.GenerateToken(account.ID, account.Email, account.Roles, s.secretKey, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return token, nil
}

// Profile returns the public projection of the account with the given id.
// The account may have been removed since the token was issued, in which
// case common.ErrorNotFound is returned.
func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}
	return account.profile(), nil
}

// List returns profiles of all accounts matching the search string.
func (s *Service) List(ctx context.Context, search string) ([]*Profile, error) {
	accounts, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	profiles := make([]*Profile, 0, len(accounts))
	for _, a := range accounts {
		profiles = append(profiles, a.profile())
	}
	return profiles, nil
}
