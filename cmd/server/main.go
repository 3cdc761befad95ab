package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookswap/internal/api"
	"bookswap/internal/app/service"
	"bookswap/internal/common/security"
	"bookswap/internal/domain/model"
	"bookswap/internal/domain/repository"
	"bookswap/internal/logging"
	"bookswap/internal/platform/cache"
	"bookswap/internal/platform/config"
	"bookswap/internal/platform/database"
	"bookswap/internal/platform/media"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg := config.Load()
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewJSON(os.Stdout, level)
	logger.Info(ctx, "configuration loaded", "storage", cfg.StorageBackend, "media", cfg.MediaBackend)

	// 2. Initialize JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Repositories
	userRepo, bookRepo, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	// 4. Initialize Redis (optional)
	var optionsCache cache.FilterOptionsCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		optionsCache = cache.NewRedisCache(rdb, cfg.FilterCacheTTL)
		logger.Info(ctx, "redis connected", "addr", cfg.RedisAddr)
	}

	// 5. Initialize Media Store
	store, uploadsDir, err := openMediaStore(ctx, cfg)
	if err != nil {
		return err
	}

	policy, err := transitionPolicy(cfg.TerminalStatuses)
	if err != nil {
		return err
	}

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, logger)
	bookService := service.NewBookService(bookRepo, userRepo, media.NewUploader(store, cfg.MediaUploadTimeout, logger), optionsCache, policy, logger)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(api.RouterConfig{
		AuthService: authService,
		BookService: bookService,
		UploadsDir:  uploadsDir,
		Verbose:     true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return err
	}

	logger.Info(ctx, "shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info(ctx, "server stopped gracefully")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repository.UserRepository, repository.BookRepository, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		store := repository.NewMemoryStore()
		return store.Users(), store.Books(), func() {}, nil
	case config.StorageBackendPostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return repository.NewPgUserRepository(db), repository.NewPgBookRepository(db), func() { db.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
}

// openMediaStore returns the cover store and, for the disk backend, the
// directory the router must serve under /uploads.
func openMediaStore(ctx context.Context, cfg *config.Config) (media.Store, string, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		store, err := media.NewS3Store(ctx, media.S3Config{
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.CoverBaseURL(),
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	case config.MediaBackendDisk:
		store, err := media.NewDiskStore(cfg.MediaDiskDir, cfg.CoverBaseURL())
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
	return nil, "", fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
}

func transitionPolicy(terminal []string) (model.TransitionPolicy, error) {
	if len(terminal) == 0 {
		return model.AllowAllTransitions(), nil
	}
	statuses := make([]model.BookStatus, 0, len(terminal))
	for _, s := range terminal {
		status := model.BookStatus(s)
		if !status.Valid() {
			return model.TransitionPolicy{}, fmt.Errorf("BOOK_TERMINAL_STATUSES: unknown status %q", s)
		}
		statuses = append(statuses, status)
	}
	return model.NewTransitionPolicy(statuses...), nil
}
