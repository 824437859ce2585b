// Package patients exposes the read side of the patient directory consumed
// by the mobile client's list screens. Every endpoint it backs sits behind
// the session guard; it carries no authorization nuance of its own.
package patients

import "context"

// Patient is a directory entry shown in the client's patient list.
type Patient struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	RoomNumber string `json:"roomNumber"`
}

// Repository abstracts patient storage.
type Repository interface {
	List(ctx context.Context, search string) ([]*Patient, error)
}
