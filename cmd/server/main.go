package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/logger"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Logging, cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else if cfg.Redis.Enabled {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache and rate limit disabled")
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.Queue.Enabled {
		pub := queue.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.Name, log)
		defer pub.Close()
		events = pub
		if cfg.Queue.Consume {
			go func() {
				if err := queue.StartConsumer(ctx, cfg.Queue.URL, cfg.Queue.Name, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("consumer stopped")
				}
			}()
		}
	}

	actors := repository.NewActorRepo(db)
	films := repository.NewFilmRepo(db)
	categories := repository.NewCategoryRepo(db)
	languages := repository.NewLanguageRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewCatalogHandler(actors, films, categories, languages), cfg, rdb)
	if cfg.Auth.JWTSecret != "" {
		router.RegisterAdmin(e, &handler.AdminHandler{
			Actors:     actors,
			Films:      films,
			Categories: categories,
			Languages:  languages,
			Events:     events,
			Cache:      middleware.NewCachePurger(cfg.Cache, rdb),
		}, cfg.Auth.JWTSecret)
	} else {
		log.Warn().Msg("CATALOG_AUTH__JWT_SECRET not set, admin API disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.App.Port
		log.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
