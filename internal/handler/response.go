// Package handler exposes the catalog over HTTP. Public handlers are
// read-only; AdminHandler mutates the catalog and announces each change.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

var errInvalidID = errors.New("invalid id")

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// items wraps a list response the same way for every collection.
func items[T any](c echo.Context, list []T) error {
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// writeError maps repository and validation errors onto HTTP statuses.
// Store failures are logged and answered with a generic 500.
func writeError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, errInvalidID):
		return badRequest(c, "invalid id")
	case errors.Is(err, repository.ErrActorNotFound),
		errors.Is(err, repository.ErrFilmNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrLanguageNotFound),
		errors.Is(err, repository.ErrLinkNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	case repository.IsConstraintViolation(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": "constraint violation"})
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
