package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/dbx"
)

// PostgresRepository stores accounts in PostgreSQL. Role sets are kept in a
// jsonb column so the set of labels can grow without schema changes.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	roles, err := json.Marshal(account.Roles)
	if err != nil {
		return nil, fmt.Errorf("error encoding roles: %w", err)
	}

	query :=
		`INSERT INTO accounts (id, email, password_hash, roles, verified)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, roles, account.Verified).
		Scan(&account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query :=
		`SELECT id, email, password_hash, roles, verified, created_at FROM accounts
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query :=
		`SELECT id, email, password_hash, roles, verified, created_at FROM accounts
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// List returns accounts ordered by email. When search is non-empty, only
// accounts whose email contains it (case-insensitive) are returned.
func (r *PostgresRepository) List(ctx context.Context, search string) ([]*Account, error) {
	query :=
		`SELECT id, email, password_hash, roles, verified, created_at FROM accounts
		 WHERE ($1 = '' OR email ILIKE '%' || $1 || '%')
		 ORDER BY email
		 `

	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	account, err := scanAccount(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return account, nil
}

func scanAccount(scan func(dest ...any) error) (*Account, error) {
	account := &Account{}
	var roles []byte

	if err := scan(&account.ID, &account.Email, &account.PasswordHash,
		&roles, &account.Verified, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &account.Roles); err != nil {
			return nil, fmt.Errorf("error decoding roles: %w", err)
		}
	}

	return account, nil
}
