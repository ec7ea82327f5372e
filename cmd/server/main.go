package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jdocmanual-finder/internal/api"
	"github.com/jdocmanual-finder/internal/config"
	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/extras"
	"github.com/jdocmanual-finder/internal/index"
	"github.com/jdocmanual-finder/internal/jdocmanual"
	"github.com/jdocmanual-finder/internal/repository"
	"github.com/jdocmanual-finder/internal/service"
	"github.com/jdocmanual-finder/internal/snapshot"
	"github.com/jdocmanual-finder/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting jdocmanual finder...")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := repository.New(db)

	engine, err := index.Open(cfg.Index.Path, repos.Link, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open search index")
	}
	defer engine.Close()

	snapshots, closeSnapshots := newSnapshotStore(cfg.Snapshot, log)
	defer closeSnapshots()

	adapter := jdocmanual.New(
		db,
		engine,
		repos.Extension,
		repos.Menu,
		snapshots,
		jdocmanual.Options{
			UseMenuTitle: cfg.Plugin.UseMenuTitle,
			Taxonomies:   cfg.Plugin.Taxonomies,
		},
		log,
		extras.NewHTMLText(),
	)

	services := service.NewServices(adapter, adapter.Finder(), engine, cfg, log)

	if err := services.Index.StartScheduler(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start index scheduler")
	}

	router := api.NewRouter(services, db, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Index.StopScheduler()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// newSnapshotStore builds the configured access snapshot store
func newSnapshotStore(cfg config.SnapshotConfig, log zerolog.Logger) (snapshot.Store, func()) {
	if cfg.Backend != "redis" {
		return snapshot.NewMemoryStore(cfg.TTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis snapshot store")

	return snapshot.NewRedisStore(client, cfg.TTL), func() { client.Close() }
}
