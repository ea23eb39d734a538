// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// RegisterRoutes registers the health check. It sits outside the cache and
// the rate limiter so probes always reach the store.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPublic registers the read-only browse API behind the Redis rate
// limiter and response cache. Both degrade to pass-through when rdb is nil.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cfg *config.Config, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(cfg.RateLimit, rdb),
		middleware.NewRedisCache(cfg.Cache, rdb),
	)

	g.GET("/actors", h.ListActors)
	g.GET("/actors/:id", h.GetActor)
	g.GET("/actors/:id/films", h.ActorFilms)

	g.GET("/films", h.ListFilms)
	g.GET("/films/:id", h.GetFilm)
	g.GET("/films/:id/actors", h.FilmActors)
	g.GET("/films/:id/categories", h.FilmCategories)

	g.GET("/categories", h.ListCategories)
	g.GET("/categories/:id/films", h.CategoryFilms)

	g.GET("/languages", h.ListLanguages)
}

// RegisterAdmin registers the mutating API. Every route requires an HS256
// token signed with jwtSecret and carrying the ADMIN role. The checks are
// attached per route so unknown /v1 paths still answer 404.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1")
	auth := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleAdmin)}

	g.POST("/actors", h.CreateActor, auth...)
	g.PUT("/actors/:id", h.UpdateActor, auth...)
	g.DELETE("/actors/:id", h.DeleteActor, auth...)

	g.POST("/films", h.CreateFilm, auth...)
	g.PUT("/films/:id", h.UpdateFilm, auth...)
	g.DELETE("/films/:id", h.DeleteFilm, auth...)
	g.PUT("/films/:id/actors/:actor_id", h.LinkFilmActor, auth...)
	g.DELETE("/films/:id/actors/:actor_id", h.UnlinkFilmActor, auth...)
	g.PUT("/films/:id/categories/:category_id", h.LinkFilmCategory, auth...)
	g.DELETE("/films/:id/categories/:category_id", h.UnlinkFilmCategory, auth...)

	g.POST("/categories", h.CreateCategory, auth...)
	g.PUT("/categories/:id", h.UpdateCategory, auth...)
	g.DELETE("/categories/:id", h.DeleteCategory, auth...)

	g.POST("/languages", h.CreateLanguage, auth...)
	g.PUT("/languages/:id", h.UpdateLanguage, auth...)
	g.DELETE("/languages/:id", h.DeleteLanguage, auth...)
}
