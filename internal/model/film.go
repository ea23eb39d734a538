package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column defaults applied by ApplyDefaults.
const (
	DefaultRentalDuration = 3
	DefaultRating         = "G"
)

var (
	DefaultRentalRate      = decimal.RequireFromString("4.99")
	DefaultReplacementCost = decimal.RequireFromString("19.99")
)

// Film is a title in the rental catalog. Optional columns are pointers so
// that nil round-trips as NULL.
//
// OriginalLanguageID is NOT NULL in the mapped schema even though a film that
// is not a translation has no meaningful original language; callers usually
// set it to LanguageID in that case.
type Film struct {
	ID                 int64           `json:"film_id"`                                         // film.film_id
	Title              string          `json:"title" validate:"required,max=255"`              // film.title
	Description        *string         `json:"description,omitempty"`                          // film.description (nullable)
	ReleaseYear        *int            `json:"release_year,omitempty"`                         // film.release_year (nullable)
	LanguageID         int64           `json:"language_id" validate:"required"`                // film.language_id
	OriginalLanguageID int64           `json:"original_language_id" validate:"required"`       // film.original_language_id
	RentalDuration     int             `json:"rental_duration" validate:"gte=0"`               // film.rental_duration
	RentalRate         decimal.Decimal `json:"rental_rate"`                                    // film.rental_rate DECIMAL(4,2)
	Length             *int            `json:"length,omitempty"`                               // film.length in minutes (nullable)
	ReplacementCost    decimal.Decimal `json:"replacement_cost"`                               // film.replacement_cost DECIMAL(5,2)
	Rating             string          `json:"rating" validate:"max=10"`                       // film.rating
	SpecialFeatures    *string         `json:"special_features,omitempty"`                     // film.special_features (nullable)
	LastUpdate         time.Time       `json:"last_update"`                                    // film.last_update
}

// ApplyDefaults fills zero-valued columns with the table defaults. A zero
// rental duration, rate or replacement cost is indistinguishable from "unset"
// and is treated as such.
func (f *Film) ApplyDefaults() {
	if f.RentalDuration == 0 {
		f.RentalDuration = DefaultRentalDuration
	}
	if f.RentalRate.IsZero() {
		f.RentalRate = DefaultRentalRate
	}
	if f.ReplacementCost.IsZero() {
		f.ReplacementCost = DefaultReplacementCost
	}
	if f.Rating == "" {
		f.Rating = DefaultRating
	}
}

func (f *Film) Validate() error {
	return validateStruct(f)
}
