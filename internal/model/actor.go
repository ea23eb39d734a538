package model

import "time"

// Actor represents a performer. Names are stored upper-cased by convention,
// which is what the surname and partial-name lookups rely on.
//
// Fields:
//
//	ID         – primary key, assigned by the store on insert.
//	FirstName  – given name (required, 45 chars max).
//	LastName   – surname (required, 45 chars max).
//	LastUpdate – refreshed on every mutation of the row.
type Actor struct {
	ID         int64     `json:"actor_id"`                                  // actor.actor_id
	FirstName  string    `json:"first_name" validate:"required,max=45"`    // actor.first_name
	LastName   string    `json:"last_name" validate:"required,max=45"`     // actor.last_name
	LastUpdate time.Time `json:"last_update"`                               // actor.last_update
}

// FullName joins first and last name with a single space.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Validate checks the NOT NULL and length constraints of the actor table.
func (a *Actor) Validate() error {
	return validateStruct(a)
}
