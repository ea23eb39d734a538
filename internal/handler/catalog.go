package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CatalogHandler serves the read-only browse API.
type CatalogHandler struct {
	Actors     *repository.ActorRepo
	Films      *repository.FilmRepo
	Categories *repository.CategoryRepo
	Languages  *repository.LanguageRepo
}

// NewCatalogHandler panics if any repository is nil.
func NewCatalogHandler(actors *repository.ActorRepo, films *repository.FilmRepo, categories *repository.CategoryRepo, languages *repository.LanguageRepo) *CatalogHandler {
	if actors == nil || films == nil || categories == nil || languages == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Actors: actors, Films: films, Categories: categories, Languages: languages}
}

// ListActors answers GET /v1/actors. ?surname= runs the exact surname lookup,
// ?q= the partial name lookup; surname wins when both are given. Without
// either every actor is listed.
func (h *CatalogHandler) ListActors(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()
	var (
		list []*model.Actor
		err  error
	)
	switch {
	case params.Has("surname"):
		list, err = h.Actors.BySurname(ctx, params.Get("surname"))
	case params.Has("q"):
		list, err = h.Actors.ByPartialName(ctx, params.Get("q"))
	default:
		list, err = h.Actors.List(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return items(c, list)
}

func (h *CatalogHandler) GetActor(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ActorFilms lists the films an actor appears in. 404 if the actor is unknown.
func (h *CatalogHandler) ActorFilms(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Actors.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	films, err := h.Actors.Films(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return items(c, films)
}

func (h *CatalogHandler) ListFilms(c echo.Context) error {
	films, err := h.Films.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return items(c, films)
}

func (h *CatalogHandler) GetFilm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	f, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// FilmActors lists a film's cast. 404 if the film is unknown.
func (h *CatalogHandler) FilmActors(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Films.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	actors, err := h.Films.Actors(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return items(c, actors)
}

// FilmCategories lists a film's categories. 404 if the film is unknown.
func (h *CatalogHandler) FilmCategories(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Films.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	cats, err := h.Films.Categories(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return items(c, cats)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return items(c, cats)
}

// CategoryFilms lists the films in a category. 404 if the category is unknown.
func (h *CatalogHandler) CategoryFilms(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Categories.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	films, err := h.Categories.Films(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return items(c, films)
}

func (h *CatalogHandler) ListLanguages(c echo.Context) error {
	langs, err := h.Languages.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return items(c, langs)
}
