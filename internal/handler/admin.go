package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// publishTimeout bounds how long a mutation waits on the broker.
const publishTimeout = 3 * time.Second

// CachePurger drops cached public responses. *middleware.CachePurger
// implements it.
type CachePurger interface {
	Purge(ctx context.Context) (int, error)
}

// AdminHandler serves the mutating API. After every successful write it
// purges the response cache and publishes a change event; failures of either
// are logged and never fail the request.
type AdminHandler struct {
	Actors     *repository.ActorRepo
	Films      *repository.FilmRepo
	Categories *repository.CategoryRepo
	Languages  *repository.LanguageRepo
	Events     queue.Publisher
	Cache      CachePurger
}

type actorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// filmRequest omits OriginalLanguageID to mean "same as LanguageID". Zero
// rental duration, rate, cost and empty rating fall back to column defaults.
type filmRequest struct {
	Title              string          `json:"title"`
	Description        *string         `json:"description"`
	ReleaseYear        *int            `json:"release_year"`
	LanguageID         int64           `json:"language_id"`
	OriginalLanguageID *int64          `json:"original_language_id"`
	RentalDuration     int             `json:"rental_duration"`
	RentalRate         decimal.Decimal `json:"rental_rate"`
	Length             *int            `json:"length"`
	ReplacementCost    decimal.Decimal `json:"replacement_cost"`
	Rating             string          `json:"rating"`
	SpecialFeatures    *string         `json:"special_features"`
}

func (r filmRequest) film(id int64) *model.Film {
	orig := r.LanguageID
	if r.OriginalLanguageID != nil {
		orig = *r.OriginalLanguageID
	}
	return &model.Film{
		ID:                 id,
		Title:              r.Title,
		Description:        r.Description,
		ReleaseYear:        r.ReleaseYear,
		LanguageID:         r.LanguageID,
		OriginalLanguageID: orig,
		RentalDuration:     r.RentalDuration,
		RentalRate:         r.RentalRate,
		Length:             r.Length,
		ReplacementCost:    r.ReplacementCost,
		Rating:             r.Rating,
		SpecialFeatures:    r.SpecialFeatures,
	}
}

// announce purges the cache and publishes ev on behalf of the caller.
func (h *AdminHandler) announce(c echo.Context, ev queue.ChangedEvent) {
	ctx := context.WithoutCancel(c.Request().Context())
	log := zerolog.Ctx(ctx)
	ev.Subject = middleware.Subject(c)

	if h.Cache != nil {
		if _, err := h.Cache.Purge(ctx); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		}
	}
	if h.Events != nil {
		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := h.Events.Publish(pctx, ev); err != nil {
			log.Warn().Err(err).
				Str("entity", string(ev.Entity)).
				Int64("entity_id", ev.EntityID).
				Msg("publish change event failed")
		}
	}
}

func (h *AdminHandler) CreateActor(c echo.Context) error {
	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	a := &model.Actor{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Create(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityActor, a.ID, queue.ActionCreated))
	return c.JSON(http.StatusCreated, a)
}

func (h *AdminHandler) UpdateActor(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	a := &model.Actor{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Update(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityActor, id, queue.ActionUpdated))
	return c.JSON(http.StatusOK, a)
}

// DeleteActor removes the actor and its film links.
func (h *AdminHandler) DeleteActor(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityActor, id, queue.ActionDeleted))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) CreateFilm(c echo.Context) error {
	var req filmRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f := req.film(0)
	if err := h.Films.Create(c.Request().Context(), f); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityFilm, f.ID, queue.ActionCreated))
	return c.JSON(http.StatusCreated, f)
}

// UpdateFilm replaces every non-key column of the film.
func (h *AdminHandler) UpdateFilm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req filmRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f := req.film(id)
	if err := h.Films.Update(c.Request().Context(), f); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityFilm, id, queue.ActionUpdated))
	return c.JSON(http.StatusOK, f)
}

// DeleteFilm removes the film with its actor and category links.
func (h *AdminHandler) DeleteFilm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Films.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityFilm, id, queue.ActionDeleted))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	cat := &model.Category{Name: req.Name}
	if err := h.Categories.Create(c.Request().Context(), cat); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityCategory, cat.ID, queue.ActionCreated))
	return c.JSON(http.StatusCreated, cat)
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	cat := &model.Category{ID: id, Name: req.Name}
	if err := h.Categories.Update(c.Request().Context(), cat); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityCategory, id, queue.ActionUpdated))
	return c.JSON(http.StatusOK, cat)
}

func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityCategory, id, queue.ActionDeleted))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) CreateLanguage(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	l := &model.Language{Name: req.Name}
	if err := h.Languages.Create(c.Request().Context(), l); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityLanguage, l.ID, queue.ActionCreated))
	return c.JSON(http.StatusCreated, l)
}

func (h *AdminHandler) UpdateLanguage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	l := &model.Language{ID: id, Name: req.Name}
	if err := h.Languages.Update(c.Request().Context(), l); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityLanguage, id, queue.ActionUpdated))
	return c.JSON(http.StatusOK, l)
}

// DeleteLanguage answers 409 while any film still uses the language.
func (h *AdminHandler) DeleteLanguage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Languages.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	h.announce(c, queue.NewChangedEvent(queue.EntityLanguage, id, queue.ActionDeleted))
	return c.NoContent(http.StatusNoContent)
}

// LinkFilmActor answers PUT /v1/films/:id/actors/:actor_id. Repeating it is
// harmless; an unknown film or actor is a 409 from the foreign key.
func (h *AdminHandler) LinkFilmActor(c echo.Context) error {
	return h.link(c, "actor_id", queue.EntityFilmActor, h.Films.AddActor)
}

func (h *AdminHandler) UnlinkFilmActor(c echo.Context) error {
	return h.unlink(c, "actor_id", queue.EntityFilmActor, h.Films.RemoveActor)
}

func (h *AdminHandler) LinkFilmCategory(c echo.Context) error {
	return h.link(c, "category_id", queue.EntityFilmCategory, h.Films.AddCategory)
}

func (h *AdminHandler) UnlinkFilmCategory(c echo.Context) error {
	return h.unlink(c, "category_id", queue.EntityFilmCategory, h.Films.RemoveCategory)
}

type linkFunc func(ctx context.Context, filmID, otherID int64) error

func (h *AdminHandler) link(c echo.Context, param string, entity queue.Entity, fn linkFunc) error {
	return h.association(c, param, entity, queue.ActionLinked, fn)
}

func (h *AdminHandler) unlink(c echo.Context, param string, entity queue.Entity, fn linkFunc) error {
	return h.association(c, param, entity, queue.ActionUnlinked, fn)
}

func (h *AdminHandler) association(c echo.Context, param string, entity queue.Entity, action queue.Action, fn linkFunc) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	otherID, err := parseID(c, param)
	if err != nil {
		return writeError(c, err)
	}
	if err := fn(c.Request().Context(), filmID, otherID); err != nil {
		return writeError(c, err)
	}
	ev := queue.NewChangedEvent(entity, filmID, action)
	ev.RelatedID = otherID
	h.announce(c, ev)
	return c.NoContent(http.StatusNoContent)
}
