package model

import "time"

// Language is referenced by films both as spoken and original language.
type Language struct {
	ID         int64     `json:"language_id"`                         // language.language_id
	Name       string    `json:"name" validate:"required,max=20"`    // language.name
	LastUpdate time.Time `json:"last_update"`                         // language.last_update
}

// Validate checks the NOT NULL and length constraints of the language table.
func (l *Language) Validate() error {
	return validateStruct(l)
}
