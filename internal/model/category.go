package model

import "time"

// Category is a genre bucket; films join categories through film_category.
type Category struct {
	ID         int64     `json:"category_id"`                         // category.category_id
	Name       string    `json:"name" validate:"required,max=20"`    // category.name
	LastUpdate time.Time `json:"last_update"`                         // category.last_update
}

// Validate checks the NOT NULL and length constraints of the category table.
func (c *Category) Validate() error {
	return validateStruct(c)
}
