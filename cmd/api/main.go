package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/salepoint/salepoint-backend/api/routes"
	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/internal/company"
	"github.com/salepoint/salepoint-backend/internal/documents"
	"github.com/salepoint/salepoint-backend/internal/invoices"
	"github.com/salepoint/salepoint-backend/internal/reports"
	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/instance"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/metrics"
	"github.com/salepoint/salepoint-backend/pkg/migrate"
	"github.com/salepoint/salepoint-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// The report cache is optional. Without a redis endpoint every report
	// recomputes from the ledger.
	var cache *redis.Client
	if cfg.Redis.Enabled() {
		cache, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, report caching disabled")
	}

	reg := metrics.New()

	itemsRepo := catalog.NewRepository(dbClient.DB())
	ledgerRepo := invoices.NewRepository(dbClient.DB(), cfg.DB.Driver)

	catalogService, err := catalog.NewService(itemsRepo, dbClient, reg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ledgerService, err := invoices.NewService(ledgerRepo, itemsRepo, dbClient, reg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), itemsRepo, cache, cfg.Reports.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	companyService, err := company.NewService(company.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	docBuilder, err := documents.NewBuilder(ledgerService, companyService)
	if err != nil {
		logg.Error(context.Background(), "failed to create document builder", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"driver":   cfg.DB.Driver,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Cache:       cache,
			Metrics:     reg,
			Catalog:     catalogService,
			Ledger:      ledgerService,
			Reports:     reportsService,
			Company:     companyService,
			DocBuilder:  docBuilder,
			DocRenderer: documents.TextRenderer{},
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
