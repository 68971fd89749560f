// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/config"
	"army-list-builder-backend/internal/database"
	"army-list-builder-backend/internal/glossary"
	"army-list-builder-backend/internal/handlers"
	"army-list-builder-backend/internal/logging"
	"army-list-builder-backend/internal/middleware"
	"army-list-builder-backend/internal/storage"
	"army-list-builder-backend/internal/workers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	units, err := catalog.LoadEmbedded()
	if err != nil {
		return err
	}
	keywords, err := glossary.LoadEmbedded()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("units", units.Len()), zap.Strings("locales", localeNames(keywords)))

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	lists := storage.NewArmyListStore(db)
	users := storage.NewUserStore(db)

	worker := workers.NewRevalidationWorker(lists, units, logger, cfg.RevalidateInterval)
	if cfg.RevalidateOnStart {
		stats, err := worker.RunOnce(ctx)
		if err != nil {
			logger.Error("initial revalidation failed", zap.Error(err))
		} else {
			logger.Info("initial revalidation finished", zap.Int("checked", stats.Checked), zap.Int("invalid", stats.Invalid))
		}
	}
	worker.Start()
	defer worker.Stop()

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			authHandler := handlers.NewAuthHandler(users, cfg.JWTKey, cfg.TokenTTL())
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		catalogHandler := handlers.NewCatalogHandler(units, keywords, cfg.DefaultLang)
		api.GET("/factions", catalogHandler.GetFactions)
		api.GET("/factions/:id", catalogHandler.GetFaction)
		api.GET("/factions/:id/units", catalogHandler.GetFactionUnits)
		api.GET("/units/:id", catalogHandler.GetUnit)

		glossaryHandler := handlers.NewGlossaryHandler(keywords, cfg.DefaultLang)
		api.GET("/keywords", glossaryHandler.GetKeywords)
		api.GET("/keywords/:name", glossaryHandler.GetKeyword)

		validate := api.Group("/validate")
		{
			validationHandler := handlers.NewValidationHandler(units)
			validate.POST("/add", validationHandler.CanAdd)
			validate.POST("/remove", validationHandler.CanRemove)
			validate.POST("/list", validationHandler.ValidateList)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWTKey))
		{
			listHandler := handlers.NewArmyListHandler(lists, units, logger)
			protected.GET("/lists", listHandler.GetLists)
			protected.POST("/lists", listHandler.CreateList)
			protected.GET("/lists/:id", listHandler.GetList)
			protected.PATCH("/lists/:id", listHandler.RenameList)
			protected.DELETE("/lists/:id", listHandler.DeleteList)
			protected.POST("/lists/:id/units", listHandler.AddUnit)
			protected.DELETE("/lists/:id/units/:unitId", listHandler.RemoveUnit)
			protected.POST("/lists/:id/units/remove-batch", listHandler.RemoveUnits)
			protected.POST("/lists/:id/clear", listHandler.ClearList)
			protected.PUT("/lists/:id/import", listHandler.ImportList)
			protected.GET("/lists/:id/export", listHandler.ExportList)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				adminHandler := handlers.NewAdminHandler(units, keywords, worker)
				admin.GET("/catalog/audit", adminHandler.CatalogAudit)
				admin.POST("/revalidate", adminHandler.Revalidate)
				admin.GET("/worker", adminHandler.GetWorkerStatus)
			}
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func localeNames(g *glossary.Glossary) []string {
	tags := g.Supported()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.String())
	}
	return names
}
