package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestFilmRepo_CreateAppliesDefaults(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewFilmRepo(db)
	lang := mustLanguage(t, db, "English")

	f := mustFilm(t, repo, "ACADEMY DINOSAUR", lang.ID)

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACADEMY DINOSAUR", got.Title)
	assert.Equal(t, 3, got.RentalDuration)
	assert.True(t, got.RentalRate.Equal(decimal.RequireFromString("4.99")), got.RentalRate.String())
	assert.True(t, got.ReplacementCost.Equal(decimal.RequireFromString("19.99")), got.ReplacementCost.String())
	assert.Equal(t, "G", got.Rating)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.ReleaseYear)
	assert.Nil(t, got.Length)
	assert.Nil(t, got.SpecialFeatures)
}

func TestFilmRepo_OptionalColumnsRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewFilmRepo(db)
	en := mustLanguage(t, db, "English")
	fr := mustLanguage(t, db, "French")

	desc := "A Epic Drama of a Feminist And a Mad Scientist"
	year := 2006
	length := 86
	features := "Deleted Scenes,Behind the Scenes"
	f := &model.Film{
		Title:              "ACE GOLDFINGER",
		Description:        &desc,
		ReleaseYear:        &year,
		LanguageID:         en.ID,
		OriginalLanguageID: fr.ID,
		RentalDuration:     6,
		RentalRate:         decimal.RequireFromString("0.99"),
		Length:             &length,
		ReplacementCost:    decimal.RequireFromString("20.99"),
		Rating:             "PG",
		SpecialFeatures:    &features,
	}
	require.NoError(t, repo.Create(context.Background(), f))

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	require.NotNil(t, got.ReleaseYear)
	assert.Equal(t, 2006, *got.ReleaseYear)
	require.NotNil(t, got.Length)
	assert.Equal(t, 86, *got.Length)
	require.NotNil(t, got.SpecialFeatures)
	assert.Equal(t, features, *got.SpecialFeatures)
	assert.Equal(t, fr.ID, got.OriginalLanguageID)
	assert.Equal(t, 6, got.RentalDuration)
	assert.Equal(t, "0.99", got.RentalRate.StringFixed(2))
	assert.Equal(t, "20.99", got.ReplacementCost.StringFixed(2))
	assert.Equal(t, "PG", got.Rating)
}

func TestFilmRepo_CreateUnknownLanguageFails(t *testing.T) {
	t.Parallel()

	repo := NewFilmRepo(openTestDB(t))
	err := repo.Create(context.Background(), &model.Film{Title: "ORPHAN", LanguageID: 9, OriginalLanguageID: 9})
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "got %v", err)
}

func TestFilmRepo_ActorLinksAreBidirectional(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	ctx := context.Background()

	lang := mustLanguage(t, db, "English")
	f := mustFilm(t, films, "ACADEMY DINOSAUR", lang.ID)
	other := mustFilm(t, films, "ACE GOLDFINGER", lang.ID)
	a1 := mustActor(t, actors, "PENELOPE", "GUINESS")
	a2 := mustActor(t, actors, "CHRISTIAN", "GABLE")

	require.NoError(t, films.AddActor(ctx, f.ID, a1.ID))
	require.NoError(t, films.AddActor(ctx, f.ID, a2.ID))
	require.NoError(t, films.AddActor(ctx, other.ID, a2.ID))

	cast, err := films.Actors(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a1.ID, a2.ID}, actorIDs(cast))

	a1Films, err := actors.Films(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.ID}, filmIDs(a1Films))

	a2Films, err := actors.Films(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.ID, other.ID}, filmIDs(a2Films))
}

func TestFilmRepo_AddActorIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	ctx := context.Background()

	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)
	a := mustActor(t, actors, "ED", "CHASE")

	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))
	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))

	cast, err := films.Actors(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, cast, 1)
}

func TestFilmRepo_AddActorRequiresExistingRows(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)

	err := films.AddActor(context.Background(), f.ID, 404)
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "got %v", err)
}

func TestFilmRepo_RemoveActor(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	ctx := context.Background()

	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)
	a := mustActor(t, actors, "ED", "CHASE")
	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))

	require.NoError(t, films.RemoveActor(ctx, f.ID, a.ID))
	assert.ErrorIs(t, films.RemoveActor(ctx, f.ID, a.ID), ErrLinkNotFound)

	got, err := actors.Films(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilmRepo_CategoryLinks(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	categories := NewCategoryRepo(db)
	ctx := context.Background()

	lang := mustLanguage(t, db, "English")
	f := mustFilm(t, films, "ACADEMY DINOSAUR", lang.ID)
	docs := &model.Category{Name: "Documentary"}
	horror := &model.Category{Name: "Horror"}
	require.NoError(t, categories.Create(ctx, docs))
	require.NoError(t, categories.Create(ctx, horror))

	require.NoError(t, films.AddCategory(ctx, f.ID, docs.ID))
	require.NoError(t, films.AddCategory(ctx, f.ID, horror.ID))

	cats, err := films.Categories(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Documentary", cats[0].Name)
	assert.Equal(t, "Horror", cats[1].Name)

	inDocs, err := categories.Films(ctx, docs.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.ID}, filmIDs(inDocs))

	require.NoError(t, films.RemoveCategory(ctx, f.ID, horror.ID))
	inHorror, err := categories.Films(ctx, horror.ID)
	require.NoError(t, err)
	assert.Empty(t, inHorror)
}

func TestFilmRepo_UpdateDoesNotTouchActors(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	db.SetClock(newStepClock().Now)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	ctx := context.Background()

	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)
	linked := mustActor(t, actors, "PENELOPE", "GUINESS")
	unrelated := mustActor(t, actors, "NICK", "WAHLBERG")
	require.NoError(t, films.AddActor(ctx, f.ID, linked.ID))

	linkedBefore, err := actors.GetByID(ctx, linked.ID)
	require.NoError(t, err)
	unrelatedBefore, err := actors.GetByID(ctx, unrelated.ID)
	require.NoError(t, err)
	filmBefore := f.LastUpdate

	f.Title = "ACADEMY DINOSAUR II"
	require.NoError(t, films.Update(ctx, f))
	assert.True(t, f.LastUpdate.After(filmBefore))

	linkedAfter, err := actors.GetByID(ctx, linked.ID)
	require.NoError(t, err)
	unrelatedAfter, err := actors.GetByID(ctx, unrelated.ID)
	require.NoError(t, err)
	assert.True(t, linkedBefore.LastUpdate.Equal(linkedAfter.LastUpdate))
	assert.True(t, unrelatedBefore.LastUpdate.Equal(unrelatedAfter.LastUpdate))
}

func TestFilmRepo_LinkingDoesNotTouchTimestamps(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	db.SetClock(newStepClock().Now)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	ctx := context.Background()

	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)
	a := mustActor(t, actors, "ED", "CHASE")
	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))

	gotFilm, err := films.GetByID(ctx, f.ID)
	require.NoError(t, err)
	gotActor, err := actors.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, f.LastUpdate.Equal(gotFilm.LastUpdate))
	assert.True(t, a.LastUpdate.Equal(gotActor.LastUpdate))
}

func TestFilmRepo_DeleteCascadesAssociations(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	actors := NewActorRepo(db)
	categories := NewCategoryRepo(db)
	ctx := context.Background()

	f := mustFilm(t, films, "ACADEMY DINOSAUR", mustLanguage(t, db, "English").ID)
	a := mustActor(t, actors, "ED", "CHASE")
	c := &model.Category{Name: "Classics"}
	require.NoError(t, categories.Create(ctx, c))
	require.NoError(t, films.AddActor(ctx, f.ID, a.ID))
	require.NoError(t, films.AddCategory(ctx, f.ID, c.ID))

	require.NoError(t, films.Delete(ctx, f.ID))

	_, err := films.GetByID(ctx, f.ID)
	assert.ErrorIs(t, err, ErrFilmNotFound)
	aFilms, err := actors.Films(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, aFilms)
	cFilms, err := categories.Films(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, cFilms)

	var links int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM film_actor`).Scan(&links))
	assert.Zero(t, links)

	assert.ErrorIs(t, films.Delete(ctx, f.ID), ErrFilmNotFound)
}

func TestFilmRepo_List(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	films := NewFilmRepo(db)
	lang := mustLanguage(t, db, "English")
	f1 := mustFilm(t, films, "ACADEMY DINOSAUR", lang.ID)
	f2 := mustFilm(t, films, "ACE GOLDFINGER", lang.ID)

	got, err := films.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{f1.ID, f2.ID}, filmIDs(got))
}
