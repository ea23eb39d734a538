package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// CategoryRepo encapsulates queries against the category table.
type CategoryRepo struct {
	db *database.DB
}

// NewCategoryRepo constructs a CategoryRepo over an open store handle.
func NewCategoryRepo(db *database.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create validates and inserts the category, populating ID and LastUpdate.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	res, err := r.db.ExecContext(ctx, "INSERT INTO category (name, last_update) VALUES (?, ?)", c.Name, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	c.LastUpdate = now
	return nil
}

// GetByID returns ErrCategoryNotFound when no row matches.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	const q = "SELECT " + categoryColumns + " FROM category WHERE category_id = ?"
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns every category ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	const q = "SELECT " + categoryColumns + " FROM category ORDER BY category_id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

// Update renames the category and refreshes its last_update.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	res, err := r.db.ExecContext(ctx, "UPDATE category SET name = ?, last_update = ? WHERE category_id = ?", c.Name, now, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	c.LastUpdate = now
	return nil
}

// Delete removes the category and its film_category rows. Films themselves
// are kept.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) (err error) {
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

	if _, err = tx.ExecContext(ctx, "DELETE FROM film_category WHERE category_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM category WHERE category_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Films lists the films in the category ordered by film id.
func (r *CategoryRepo) Films(ctx context.Context, categoryID int64) ([]*model.Film, error) {
	q := "SELECT " + qualify("f", filmColumns) + `
		FROM film f
		JOIN film_category fc ON fc.film_id = f.film_id
		WHERE fc.category_id = ?
		ORDER BY f.film_id`
	rows, err := r.db.QueryContext(ctx, q, categoryID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFilm)
}
