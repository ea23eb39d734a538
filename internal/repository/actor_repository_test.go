package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestActorRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewActorRepo(db)
	ctx := context.Background()

	a := mustActor(t, repo, "PENELOPE", "GUINESS")
	assert.NotZero(t, a.ID)
	assert.False(t, a.LastUpdate.IsZero())

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENELOPE", got.FirstName)
	assert.Equal(t, "GUINESS", got.LastName)
	assert.Equal(t, "PENELOPE GUINESS", got.FullName())
	assert.True(t, a.LastUpdate.Equal(got.LastUpdate), "stored %v, read %v", a.LastUpdate, got.LastUpdate)
}

func TestActorRepo_GetByIDNotFound(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestActorRepo_CreateRejectsInvalid(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	err := repo.Create(context.Background(), &model.Actor{FirstName: "NO SURNAME"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestActorRepo_BySurnameIgnoresInputCase(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	ctx := context.Background()

	a1 := mustActor(t, repo, "ED", "CHASE")
	mustActor(t, repo, "NICK", "WAHLBERG")
	a3 := mustActor(t, repo, "JON", "CHASE")
	mustActor(t, repo, "JOHN", "CHASEN")

	for _, in := range []string{"chase", "CHASE", "Chase"} {
		got, err := repo.BySurname(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, []int64{a1.ID, a3.ID}, actorIDs(got), "input %q", in)
		for _, a := range got {
			assert.Equal(t, strings.ToUpper(in), a.LastName)
		}
	}
}

func TestActorRepo_BySurnameNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	mustActor(t, repo, "ED", "CHASE")

	got, err := repo.BySurname(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestActorRepo_ByPartialName(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	ctx := context.Background()

	art := mustActor(t, repo, "ART", "DEE")
	bart := mustActor(t, repo, "KIM", "BARTLETT")
	mustActor(t, repo, "GRACE", "MOSTEL")
	both := mustActor(t, repo, "MARTY", "STARTLE")

	got, err := repo.ByPartialName(ctx, "art")
	require.NoError(t, err)
	assert.Equal(t, []int64{art.ID, bart.ID, both.ID}, actorIDs(got))
	for _, a := range got {
		assert.True(t, strings.Contains(a.FirstName, "ART") || strings.Contains(a.LastName, "ART"))
	}
}

func TestActorRepo_ByPartialNameIsCaseSensitiveAgainstStoredData(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	// Stored outside the upper-case convention, so an upper-cased needle
	// does not find it.
	mustActor(t, repo, "Arthur", "Dent")
	upper := mustActor(t, repo, "ARTHUR", "DENT")

	got, err := repo.ByPartialName(context.Background(), "arthur")
	require.NoError(t, err)
	assert.Equal(t, []int64{upper.ID}, actorIDs(got))
}

func TestActorRepo_ByPartialNameEmptyMatchesAll(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	mustActor(t, repo, "ED", "CHASE")
	mustActor(t, repo, "NICK", "WAHLBERG")

	got, err := repo.ByPartialName(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestActorRepo_ByPartialNameTreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	mustActor(t, repo, "ED", "CHASE")

	got, err := repo.ByPartialName(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestActorRepo_PenelopeGuinessScenario(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	ctx := context.Background()
	p := mustActor(t, repo, "PENELOPE", "GUINESS")

	bySurname, err := repo.BySurname(ctx, "guiness")
	require.NoError(t, err)
	require.Len(t, bySurname, 1)
	assert.Equal(t, p.ID, bySurname[0].ID)

	partial, err := repo.ByPartialName(ctx, "GUIN")
	require.NoError(t, err)
	require.Len(t, partial, 1)
	assert.Equal(t, p.ID, partial[0].ID)

	none, err := repo.ByPartialName(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestActorRepo_UpdateAdvancesLastUpdate(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	db.SetClock(newStepClock().Now)
	repo := NewActorRepo(db)
	ctx := context.Background()

	a := mustActor(t, repo, "ED", "CHASE")
	before := a.LastUpdate
	originalID := a.ID

	a.FirstName = "EDWARD"
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, originalID)
	require.NoError(t, err)
	assert.Equal(t, "EDWARD", got.FirstName)
	assert.Equal(t, originalID, got.ID)
	assert.True(t, got.LastUpdate.After(before), "last_update %v not after %v", got.LastUpdate, before)
}

func TestActorRepo_UpdateMissingRow(t *testing.T) {
	t.Parallel()

	repo := NewActorRepo(openTestDB(t))
	err := repo.Update(context.Background(), &model.Actor{ID: 77, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestActorRepo_DeleteCascadesLinks(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	actors := NewActorRepo(db)
	films := NewFilmRepo(db)
	ctx := context.Background()

	lang := mustLanguage(t, db, "English")
	f := mustFilm(t, films, "ACADEMY DINOSAUR", lang.ID)
	a := mustActor(t, actors, "ED", "CHASE")
	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))

	require.NoError(t, actors.Delete(ctx, a.ID))

	cast, err := films.Actors(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, cast)
	_, err = films.GetByID(ctx, f.ID)
	assert.NoError(t, err, "film must survive actor deletion")

	assert.ErrorIs(t, actors.Delete(ctx, a.ID), ErrActorNotFound)
}
