package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shipstore/lma-finance/internal/auth"
	"github.com/shipstore/lma-finance/internal/config"
	"github.com/shipstore/lma-finance/internal/db"
	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/excel"
	httphandler "github.com/shipstore/lma-finance/internal/http"
	"github.com/shipstore/lma-finance/internal/http/middleware"
	"github.com/shipstore/lma-finance/internal/logger"
	"github.com/shipstore/lma-finance/internal/metrics"
	"github.com/shipstore/lma-finance/internal/pdf"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/repository"
	"github.com/shipstore/lma-finance/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	itemRepo := repository.NewItemRepository(database)
	fdaRepo := repository.NewFDARepository(database)
	permissionRepo := repository.NewPermissionRepository(database)
	auditRepo := repository.NewAuditRepository(database)
	fileRepo := repository.NewFileRepository(database)

	m := metrics.New()

	var bus events.Bus = events.NewMemoryBus()
	if cfg.Redis.Addr != "" {
		redisBus, err := events.NewRedisBus(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisBus.Close()
		bus = redisBus
	}

	resolver := permission.NewResolver(permissionRepo, permission.Policy{MasterIdentity: cfg.Auth.MasterEmail})

	auditService := service.NewAuditService(auditRepo, bus, m, log)
	permissionService := service.NewPermissionService(resolver, auditService, bus, log)
	services := httphandler.Services{
		Items:       service.NewItemService(itemRepo, fdaRepo, auditService, bus, m, log),
		FDAs:        service.NewFDAService(fdaRepo, itemRepo, auditService, bus, log),
		Permissions: permissionService,
		Audit:       auditService,
		Attachments: service.NewAttachmentService(fileRepo, itemRepo, auditService, cfg.Files.MaxSizeBytes, cfg.Files.AllowedTypes),
		Export:      service.NewExportService(itemRepo, excel.NewGenerator(), pdf.NewGenerator()),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, bus, log)
	authMiddleware := middleware.Auth(tokenParser, permissionService, log)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Metrics:        m,
		Log:            log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Bool("redis", cfg.Redis.Addr != "").Msg("starting lma finance service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
