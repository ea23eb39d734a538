package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// openTestDB opens a migrated SQLite file under the test's temp dir.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "movies.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stepClock advances by one second on every call so consecutive writes get
// strictly increasing timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func mustActor(t *testing.T, repo *ActorRepo, first, last string) *model.Actor {
	t.Helper()
	a := &model.Actor{FirstName: first, LastName: last}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func mustLanguage(t *testing.T, db *database.DB, name string) *model.Language {
	t.Helper()
	l := &model.Language{Name: name}
	require.NoError(t, NewLanguageRepo(db).Create(context.Background(), l))
	return l
}

func mustFilm(t *testing.T, repo *FilmRepo, title string, languageID int64) *model.Film {
	t.Helper()
	f := &model.Film{Title: title, LanguageID: languageID, OriginalLanguageID: languageID}
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

func actorIDs(actors []*model.Actor) []int64 {
	ids := make([]int64, 0, len(actors))
	for _, a := range actors {
		ids = append(ids, a.ID)
	}
	return ids
}

func filmIDs(films []*model.Film) []int64 {
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}
