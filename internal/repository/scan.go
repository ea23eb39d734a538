package repository

import (
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const (
	actorColumns    = "actor_id, first_name, last_name, last_update"
	languageColumns = "language_id, name, last_update"
	categoryColumns = "category_id, name, last_update"
	filmColumns     = `film_id, title, description, release_year, language_id, original_language_id,
		rental_duration, rental_rate, length, replacement_cost, rating, special_features, last_update`
)

func scanActor(s rowScanner) (*model.Actor, error) {
	a := new(model.Actor)
	if err := s.Scan(&a.ID, &a.FirstName, &a.LastName, &a.LastUpdate); err != nil {
		return nil, err
	}
	return a, nil
}

func scanLanguage(s rowScanner) (*model.Language, error) {
	l := new(model.Language)
	if err := s.Scan(&l.ID, &l.Name, &l.LastUpdate); err != nil {
		return nil, err
	}
	return l, nil
}

func scanCategory(s rowScanner) (*model.Category, error) {
	c := new(model.Category)
	if err := s.Scan(&c.ID, &c.Name, &c.LastUpdate); err != nil {
		return nil, err
	}
	return c, nil
}

func scanFilm(s rowScanner) (*model.Film, error) {
	var (
		f           model.Film
		description sql.NullString
		releaseYear sql.NullInt64
		length      sql.NullInt64
		features    sql.NullString
	)
	err := s.Scan(&f.ID, &f.Title, &description, &releaseYear, &f.LanguageID, &f.OriginalLanguageID,
		&f.RentalDuration, &f.RentalRate, &length, &f.ReplacementCost, &f.Rating, &features, &f.LastUpdate)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		f.Description = &description.String
	}
	if releaseYear.Valid {
		v := int(releaseYear.Int64)
		f.ReleaseYear = &v
	}
	if length.Valid {
		v := int(length.Int64)
		f.Length = &v
	}
	if features.Valid {
		f.SpecialFeatures = &features.String
	}
	return &f, nil
}

// collect drains rows through scan. It always returns a non-nil slice so an
// empty result encodes as [] rather than null.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// qualify prefixes every column in a comma separated list with alias, for
// use in join queries.
func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
