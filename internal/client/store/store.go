// Package store persists the client's session state in a local sqlite file,
// the way the mobile app keeps its token in secure storage. It holds the
// issued token, the derived isAuthenticated flag, and optionally the
// remembered credentials.
//
// Remember-me keeps the raw email/password at rest so the login form can be
// pre-filled, faithfully reproducing the app's behavior. That is a known
// weakness: a production redesign should replace it with a refresh token
// instead of a stored password.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/hopitalsej/sejour/internal/client/store/migrations"
	"github.com/hopitalsej/sejour/internal/dbx"
)

const (
	keyToken    = "token"
	keyEmail    = "email"
	keyPassword = "password"
)

// Store is the local session store. Save and Clear are serialized and each
// runs in its own transaction, so a logout racing a login can never leave a
// half-written session behind.
type Store struct {
	db *sql.DB

	mu         sync.Mutex
	generation uint64
}

// Open opens (or creates) the sqlite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("store migration error: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Generation returns the current session generation. It increases on every
// Save and Clear; a response obtained under an older generation is stale
// and must be discarded by the caller.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Save persists the token and advances the generation.
func (s *Store) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return set(ctx, tx, keyToken, []byte(token))
	})
	if err != nil {
		return err
	}

	s.generation++
	return nil
}

// Load returns the persisted token, or "" when none is stored. It performs
// no local validity check: an expired-but-present token is reported as
// present and only corrected when the server answers 403.
func (s *Store) Load(ctx context.Context) (string, error) {
	value, err := get(ctx, s.db, keyToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Clear removes the token and advances the generation. Remembered
// credentials are kept; they exist to pre-fill the next login.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return del(ctx, tx, keyToken)
	})
	if err != nil {
		return err
	}

	s.generation++
	return nil
}

// SaveCredentials persists the remember-me email/password pair.
func (s *Store) SaveCredentials(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyEmail, []byte(email)); err != nil {
			return err
		}
		return set(ctx, tx, keyPassword, []byte(password))
	})
}

// Credentials returns the remembered email/password, empty when absent.
func (s *Store) Credentials(ctx context.Context) (email, password string, err error) {
	e, err := get(ctx, s.db, keyEmail)
	if err != nil {
		return "", "", err
	}
	p, err := get(ctx, s.db, keyPassword)
	if err != nil {
		return "", "", err
	}
	return string(e), string(p), nil
}

// ClearCredentials wipes the remembered pair.
func (s *Store) ClearCredentials(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := del(ctx, tx, keyEmail); err != nil {
			return err
		}
		return del(ctx, tx, keyPassword)
	})
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, db dbx.DBTX, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}
