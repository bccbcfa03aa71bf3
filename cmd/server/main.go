package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/rohits-web03/recipeshare/internal/api"
	"github.com/rohits-web03/recipeshare/internal/api/handlers"
	"github.com/rohits-web03/recipeshare/internal/api/middleware"
	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/config"
	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/rohits-web03/recipeshare/web"
)

//	@title			Recipe Share API
//	@version		1.0
//	@description	Read-only JSON feeds of the recipe sharing site.
//	@BasePath		/api/v1
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.SlogLogger) error {
	// Connect to database
	db, err := repositories.ConnectDatabase(cfg.DatabaseURL, logger.Slog())
	if err != nil {
		return err
	}
	users := repositories.NewUserRepository(db)
	posts := repositories.NewPostRepository(db)

	sessionStore, err := newSessionStore(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	uploader := services.NewUploader(store, cfg.AvatarSize, cfg.PostImageSize)
	if local, ok := store.(*repositories.LocalStore); ok {
		if err := ensurePlaceholders(ctx, local, uploader); err != nil {
			return err
		}
	}

	notifier, err := services.NewNotifier(cfg.Mail, cfg.IsProduction(), logger)
	if err != nil {
		return err
	}

	accounts := services.NewAccountService(users, services.NewTokenIssuer(cfg.SecretKey, cfg.ResetTokenTTL), notifier, uploader, logger)
	sessions := middleware.NewSessions(sessionStore, accounts, logger, middleware.SessionOptions{
		TTL:         cfg.SessionDuration,
		RememberTTL: cfg.RememberDuration,
		Secure:      cfg.IsProduction(),
	})

	h, err := handlers.New(handlers.Deps{
		Accounts:  accounts,
		Posts:     services.NewPostService(posts, users, uploader, cfg.PostsPerPage, logger),
		Uploader:  uploader,
		Sessions:  sessions,
		Google:    services.NewGoogleAuth(cfg.Google),
		Templates: web.Templates,
		Log:       logger,
		BaseURL:   cfg.BaseURL,
		Secure:    cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	routerCfg := api.RouterConfig{Cors: cfg.CorsConfig}
	if cfg.StorageDriver == "local" {
		routerCfg.StaticDir = cfg.StaticDir
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h, sessions, logger, routerCfg),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "starting recipe share server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutCtx)
	})
	return g.Wait()
}

// Redis holds sessions when REDIS_ADDR is set; otherwise they live in the
// database and expired rows are purged at startup.
func newSessionStore(ctx context.Context, cfg config.Config, db *gorm.DB, logger logging.Logger) (repositories.SessionStore, error) {
	if cfg.RedisAddr != "" {
		rdb, err := repositories.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "sessions stored in redis", "addr", cfg.RedisAddr)
		return repositories.NewRedisSessionStore(rdb), nil
	}

	store := repositories.NewGormSessionStore(db)
	n, err := store.Purge(ctx)
	if err != nil {
		return nil, fmt.Errorf("purge sessions: %w", err)
	}
	logger.Info(ctx, "sessions stored in database", "purged", n)
	return store, nil
}

func newObjectStore(ctx context.Context, cfg config.Config) (repositories.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "local":
		return repositories.NewLocalStore(cfg.StaticDir, "/static"), nil
	case "r2":
		return repositories.NewR2Store(cfg.R2)
	case "minio":
		return repositories.NewMinioStore(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}


func ensurePlaceholders(ctx context.Context, store *repositories.LocalStore, uploader *services.Uploader) error {
	for _, category := range []services.Category{services.CategoryProfile, services.CategoryPost} {
		if _, err := os.Stat(filepath.Join(store.Root(), string(category), models.DefaultImage)); err != nil {
			return uploader.WritePlaceholders(ctx)
		}
	}
	return nil
}
