package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"industrain/internal/catalog"
	"industrain/internal/config"
	"industrain/internal/course"
	"industrain/internal/database"
	"industrain/internal/enrollment"
	"industrain/internal/handler"
	"industrain/internal/jwtauth"
	"industrain/internal/logger"
	"industrain/internal/profile"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("error closing database connection", "error", err)
		}
	}()
	log.Info("database connection established")

	// Run migrations
	migrationsPath := database.ResolveMigrationsPath(cfg.MigrationsPath)
	state, err := db.MigrateUp(migrationsPath)
	if err != nil {
		log.Fatal("failed to run migrations", "path", migrationsPath, "error", err)
	}
	if state.Dirty {
		log.Warn("database is in dirty state - a previous migration failed and manual intervention is required", "version", state.Version)
	} else {
		log.Info("database migrations complete", "version", state.Version)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatal("failed to load catalog", "error", err)
	}
	stats := cat.Stats()
	log.Info("catalog loaded", "courses", stats.TotalCourses, "partners", stats.TotalPartners)

	// Optional listing cache
	var listCache course.ListCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the cache is best-effort; keep it wired so it recovers once redis is up
			log.Warn("course cache unreachable, continuing", "addr", cfg.Redis.Addr, "error", err)
		}
		redisCache := course.NewRedisCache(rdb, cfg.Redis.CourseCacheTTL, log)
		// listings cached by a previous deploy may predate this schema
		if err := redisCache.Invalidate(ctx); err != nil {
			log.Warn("failed to clear course cache", "error", err)
		}
		cancel()
		listCache = redisCache
		log.Info("course cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CourseCacheTTL)
	}

	courseManager := course.NewManager(course.NewDatastore(db.DB), listCache, log)
	profileManager := profile.NewManager(profile.NewDatastore(db.DB), log)
	enrollmentManager := enrollment.NewManager(enrollment.NewDatastore(db.DB), log)

	verifier, err := jwtauth.NewVerifier(jwtauth.Config{
		Issuer:            cfg.Clerk.Issuer,
		JWKSURL:           cfg.Clerk.JWKSURL,
		AuthorizedParties: cfg.Clerk.AuthorizedParties,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize token verifier", "error", err)
	}

	// Set up routes with dependencies
	deps := &handler.Deps{
		Config:      cfg,
		DB:          db,
		Catalog:     cat,
		Courses:     courseManager,
		Resolver:    course.NewResolver(courseManager, log),
		Profiles:    profileManager,
		Enrollments: enrollmentManager,
		Verifier:    verifier,
		Logger:      log,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal server errors
	serverErr := make(chan error, 1)

	go func() {
		log.Info("industrain server starting", "port", cfg.Port, "env", cfg.Environment)
		serverErr <- server.ListenAndServe()
	}()

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("initiating graceful shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info("waiting for in-flight requests to complete")
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed, forcing shutdown", "error", err)
			if err := server.Close(); err != nil {
				log.Fatal("forced shutdown failed", "error", err)
			}
		}

		log.Info("server shutdown complete")
	}
}
