// Package db wires the database connection to the repositories used by the
// server and runs schema migrations at startup.
package db

import (
	"context"
	"database/sql"

	"github.com/hopitalsej/sejour/internal/server/accounts"
	"github.com/hopitalsej/sejour/internal/server/patients"
)

// RepositoryManager hands out the repositories sharing one connection pool.
type RepositoryManager interface {
	Conn() *sql.DB
	Accounts() accounts.Repository
	Patients() patients.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
