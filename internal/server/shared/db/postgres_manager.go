package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hopitalsej/sejour/internal/server/accounts"
	"github.com/hopitalsej/sejour/internal/server/migrations"
	"github.com/hopitalsej/sejour/internal/server/patients"
)

type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts accounts.Repository
	patients patients.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Patients() patients.Repository {
	return m.patients
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager opens a bounded pgx pool, runs migrations,
// and constructs the repositories. A caller that exhausts the pool waits on
// the context of its own query rather than hanging indefinitely.
func NewPostgresRepositoryManager(dsn string, maxConns int) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	accountRepo, err := accounts.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("account repo creation error: %w", err)
	}

	patientRepo, err := patients.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("patient repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:       db,
		accounts: accountRepo,
		patients: patientRepo,
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
