package accounts

import "context"

// Repository abstracts account storage.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context, search string) ([]*Account, error)
}
