// Package accounts holds the account model, its PostgreSQL repository, and
// the credential-verification service that issues session tokens.
package accounts

import "time"

// Account is a stored identity: unique email, bcrypt password hash, a set of
// free-form role labels, and a verification flag. Accounts are created and
// mutated by the admin tooling; this service only reads them.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	Verified     bool
	CreatedAt    time.Time
}

// Profile is the public projection of an Account returned by guarded
// profile/listing endpoints. The password hash never leaves the package.
type Profile struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Verified bool     `json:"verified"`
}

func (a *Account) profile() *Profile {
	return &Profile{
		ID:       a.ID,
		Email:    a.Email,
		Roles:    a.Roles,
		Verified: a.Verified,
	}
}
