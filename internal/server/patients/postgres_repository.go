package patients

import (
	"context"
	"fmt"

	"github.com/hopitalsej/sejour/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

// List returns patients ordered by last name, optionally filtered by a
// case-insensitive substring match on either name.
func (r *PostgresRepository) List(ctx context.Context, search string) ([]*Patient, error) {
	query :=
		`SELECT id, first_name, last_name, room_number FROM patients
		 WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%')
		 ORDER BY last_name, first_name
		 `

	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*Patient
	for rows.Next() {
		p := &Patient{}
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.RoomNumber); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}
