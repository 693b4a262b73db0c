package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger      *slog.Logger
	router      *http.ServeMux
	db          *pgxpool.Pool
	rounds      handlers.RoundStore
	store       *session.Store
	tokens      *config.Tokens
	ws          *config.WebSocket
	params      mines.GameParams
	maxDim      int
	idleTimeout time.Duration
	migrations  fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	router := http.NewServeMux()
	mines.Log = logger.With(slog.String("component", "mines"))

	app := &App{
		logger:     logger,
		router:     router,
		store:      session.NewStore(logger, session.NewRand()),
		migrations: migrations,
	}

	return app
}

func (a *App) configure(ctx context.Context) error {
	tokens, err := config.NewTokens()
	if err != nil {
		return err
	}
	a.tokens = tokens

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	params, err := config.GameParams()
	if err != nil {
		return err
	}
	a.params = params

	maxDim, err := config.MaxDimension()
	if err != nil {
		return err
	}
	if params.Width > maxDim || params.Height > maxDim {
		return fmt.Errorf("GAME_PARAMS %s exceed GAME_MAX_DIMENSION %d", params, maxDim)
	}
	a.maxDim = maxDim

	idleTimeout, err := config.IdleTimeout()
	if err != nil {
		return err
	}
	a.idleTimeout = idleTimeout

	if !config.HistoryEnabled() {
		a.logger.Warn("no database configured, round history disabled")
		return nil
	}
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if err := database.CloseMigrator(migrator); err != nil {
		a.logger.Warn("unable to close migrator", slog.Any("error", err))
	}
	a.db = db
	a.rounds = repository.New(db)
	return nil
}

// Handler returns the router behind the middleware chain.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(),
		middleware.Auth(a.logger, a.tokens),
		middleware.Logging(a.logger),
	)
}

// sweep drops idle sessions until ctx is done.
func (a *App) sweep(ctx context.Context) error {
	ticker := time.NewTicker(a.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			a.store.Sweep(now, a.idleTimeout)
		}
	}
}

func (a *App) Start(ctx context.Context) error {
	if err := a.configure(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	a.loadRoutes()

	port := config.Port()
	server := &http.Server{
		Addr:        port,
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		Handler:     a.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		return a.sweep(ctx)
	})

	return g.Wait()
}
