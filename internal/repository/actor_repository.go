package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// ActorRepo encapsulates all queries against the actor table, including the
// surname and partial-name lookups.
type ActorRepo struct {
	db *database.DB
}

// NewActorRepo constructs an ActorRepo over an open store handle.
func NewActorRepo(db *database.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// Create inserts a new actor. On success ID and LastUpdate are populated.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	const q = "INSERT INTO actor (first_name, last_name, last_update) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.LastUpdate = now
	return nil
}

// GetByID returns ErrActorNotFound when no row matches.
func (r *ActorRepo) GetByID(ctx context.Context, id int64) (*model.Actor, error) {
	const q = "SELECT " + actorColumns + " FROM actor WHERE actor_id = ?"
	a, err := scanActor(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns every actor ordered by id.
func (r *ActorRepo) List(ctx context.Context) ([]*model.Actor, error) {
	const q = "SELECT " + actorColumns + " FROM actor ORDER BY actor_id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActor)
}

// Update writes the name fields and refreshes last_update. The key is never
// rewritten. Returns ErrActorNotFound when no row has a.ID.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	const q = "UPDATE actor SET first_name = ?, last_name = ?, last_update = ? WHERE actor_id = ?"
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, now, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActorNotFound
	}
	a.LastUpdate = now
	return nil
}

// Delete removes the actor together with its film_actor links in one
// transaction.
func (r *ActorRepo) Delete(ctx context.Context, id int64) (err error) {
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

	if _, err = tx.ExecContext(ctx, "DELETE FROM film_actor WHERE actor_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM actor WHERE actor_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActorNotFound
	}
	return nil
}

// BySurname returns the actors whose last name equals match upper-cased.
// Names are stored in capitals, so "guiness" and "GUINESS" find the same
// rows. Results are ordered by last name, then actor id.
func (r *ActorRepo) BySurname(ctx context.Context, match string) ([]*model.Actor, error) {
	const q = "SELECT " + actorColumns + " FROM actor WHERE last_name = ? ORDER BY last_name, actor_id"
	rows, err := r.db.QueryContext(ctx, q, strings.ToUpper(match))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActor)
}

// ByPartialName returns the actors whose first or last name contains match
// upper-cased. The comparison is a case-sensitive substring test against the
// stored capitals; an empty match returns every actor. Ordered by actor id.
func (r *ActorRepo) ByPartialName(ctx context.Context, match string) ([]*model.Actor, error) {
	q := "SELECT " + actorColumns + " FROM actor WHERE " +
		r.db.Driver.ContainsExpr("first_name") + " OR " + r.db.Driver.ContainsExpr("last_name") +
		" ORDER BY actor_id"
	needle := strings.ToUpper(match)
	rows, err := r.db.QueryContext(ctx, q, needle, needle)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActor)
}

// Films lists the films the actor appears in, ordered by film id. An actor
// with no films, or an unknown id, yields an empty slice.
func (r *ActorRepo) Films(ctx context.Context, actorID int64) ([]*model.Film, error) {
	q := "SELECT " + qualify("f", filmColumns) + `
		FROM film f
		JOIN film_actor fa ON fa.film_id = f.film_id
		WHERE fa.actor_id = ?
		ORDER BY f.film_id`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFilm)
}
