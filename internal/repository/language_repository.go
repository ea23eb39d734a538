package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// LanguageRepo encapsulates queries against the language table.
type LanguageRepo struct {
	db *database.DB
}

// NewLanguageRepo constructs a LanguageRepo over an open store handle.
func NewLanguageRepo(db *database.DB) *LanguageRepo {
	return &LanguageRepo{db: db}
}

// Create validates and inserts the language, populating ID and LastUpdate.
func (r *LanguageRepo) Create(ctx context.Context, l *model.Language) error {
	if err := l.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	res, err := r.db.ExecContext(ctx, "INSERT INTO language (name, last_update) VALUES (?, ?)", l.Name, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	l.LastUpdate = now
	return nil
}

// GetByID returns ErrLanguageNotFound when no row matches.
func (r *LanguageRepo) GetByID(ctx context.Context, id int64) (*model.Language, error) {
	const q = "SELECT " + languageColumns + " FROM language WHERE language_id = ?"
	l, err := scanLanguage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns every language ordered by id.
func (r *LanguageRepo) List(ctx context.Context) ([]*model.Language, error) {
	const q = "SELECT " + languageColumns + " FROM language ORDER BY language_id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanLanguage)
}

// Update renames the language and refreshes its last_update.
func (r *LanguageRepo) Update(ctx context.Context, l *model.Language) error {
	if err := l.Validate(); err != nil {
		return err
	}
	now := r.db.Now()
	res, err := r.db.ExecContext(ctx, "UPDATE language SET name = ?, last_update = ? WHERE language_id = ?", l.Name, now, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLanguageNotFound
	}
	l.LastUpdate = now
	return nil
}

// Delete removes the language. A language still referenced by a film is
// rejected by the store's foreign key and that error is returned as is.
func (r *LanguageRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM language WHERE language_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLanguageNotFound
	}
	return nil
}
