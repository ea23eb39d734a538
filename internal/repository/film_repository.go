package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// FilmRepo handles the film table and both of its association tables.
// Relationship navigation is explicit: Actors and Categories run a join on
// demand instead of keeping back-references.
type FilmRepo struct {
	db *database.DB
}

// NewFilmRepo constructs a FilmRepo over an open store handle.
func NewFilmRepo(db *database.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// Create applies column defaults, validates and inserts the film. ID and
// LastUpdate are populated on success.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	f.ApplyDefaults()
	if err := f.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	const q = `INSERT INTO film (title, description, release_year, language_id, original_language_id,
		rental_duration, rental_rate, length, replacement_cost, rating, special_features, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.Title, f.Description, f.ReleaseYear, f.LanguageID, f.OriginalLanguageID,
		f.RentalDuration, f.RentalRate, f.Length, f.ReplacementCost, f.Rating, f.SpecialFeatures, now,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = id
	f.LastUpdate = now
	return nil
}

// GetByID returns ErrFilmNotFound when no row matches.
func (r *FilmRepo) GetByID(ctx context.Context, id int64) (*model.Film, error) {
	const q = "SELECT " + filmColumns + " FROM film WHERE film_id = ?"
	f, err := scanFilm(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns every film ordered by id.
func (r *FilmRepo) List(ctx context.Context) ([]*model.Film, error) {
	const q = "SELECT " + filmColumns + " FROM film ORDER BY film_id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFilm)
}

// Update rewrites every non-key column of the film and refreshes its
// last_update. Linked actors and categories are not touched.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film) error {
	f.ApplyDefaults()
	if err := f.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	const q = `UPDATE film
		SET title = ?, description = ?, release_year = ?, language_id = ?, original_language_id = ?,
		    rental_duration = ?, rental_rate = ?, length = ?, replacement_cost = ?, rating = ?,
		    special_features = ?, last_update = ?
		WHERE film_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.Title, f.Description, f.ReleaseYear, f.LanguageID, f.OriginalLanguageID,
		f.RentalDuration, f.RentalRate, f.Length, f.ReplacementCost, f.Rating, f.SpecialFeatures, now,
		f.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	f.LastUpdate = now
	return nil
}

// Delete removes the film and cascades to its film_actor and film_category
// rows within one transaction.
func (r *FilmRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM film_actor WHERE film_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM film_category WHERE film_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM film WHERE film_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	return nil
}

// AddActor links an actor to the film. Linking an existing pair is a no-op;
// an unknown film or actor fails with the store's foreign key error.
func (r *FilmRepo) AddActor(ctx context.Context, filmID, actorID int64) error {
	q := r.db.Driver.LinkInsert("film_actor", "actor_id", "film_id")
	_, err := r.db.ExecContext(ctx, q, actorID, filmID)
	return err
}

// RemoveActor unlinks an actor from the film.
func (r *FilmRepo) RemoveActor(ctx context.Context, filmID, actorID int64) error {
	const q = "DELETE FROM film_actor WHERE actor_id = ? AND film_id = ?"
	return r.unlink(ctx, q, actorID, filmID)
}

// Actors lists the actors appearing in the film, ordered by actor id.
func (r *FilmRepo) Actors(ctx context.Context, filmID int64) ([]*model.Actor, error) {
	q := "SELECT " + qualify("a", actorColumns) + `
		FROM actor a
		JOIN film_actor fa ON fa.actor_id = a.actor_id
		WHERE fa.film_id = ?
		ORDER BY a.actor_id`
	rows, err := r.db.QueryContext(ctx, q, filmID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActor)
}

// AddCategory places the film in a category. Idempotent like AddActor.
func (r *FilmRepo) AddCategory(ctx context.Context, filmID, categoryID int64) error {
	q := r.db.Driver.LinkInsert("film_category", "category_id", "film_id")
	_, err := r.db.ExecContext(ctx, q, categoryID, filmID)
	return err
}

// RemoveCategory takes the film out of a category.
func (r *FilmRepo) RemoveCategory(ctx context.Context, filmID, categoryID int64) error {
	const q = "DELETE FROM film_category WHERE category_id = ? AND film_id = ?"
	return r.unlink(ctx, q, categoryID, filmID)
}

// Categories lists the film's categories ordered by category id.
func (r *FilmRepo) Categories(ctx context.Context, filmID int64) ([]*model.Category, error) {
	q := "SELECT " + qualify("c", categoryColumns) + `
		FROM category c
		JOIN film_category fc ON fc.category_id = c.category_id
		WHERE fc.film_id = ?
		ORDER BY c.category_id`
	rows, err := r.db.QueryContext(ctx, q, filmID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

func (r *FilmRepo) unlink(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLinkNotFound
	}
	return nil
}
