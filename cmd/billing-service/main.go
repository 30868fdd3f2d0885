package main

import (
	"fmt"
	"os"

	"github.com/tmedina/wasteops-billing/internal/auth"
	"github.com/tmedina/wasteops-billing/internal/config"
	"github.com/tmedina/wasteops-billing/internal/db"
	httphandler "github.com/tmedina/wasteops-billing/internal/http"
	"github.com/tmedina/wasteops-billing/internal/http/middleware"
	"github.com/tmedina/wasteops-billing/internal/logger"
	"github.com/tmedina/wasteops-billing/internal/repository"
	"github.com/tmedina/wasteops-billing/internal/service"
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

	loadRepo := repository.NewLoadRepository(database)
	tariffRepo := repository.NewTariffRepository(database)
	distanceRepo := repository.NewDistanceRepository(database)
	cycleRepo := repository.NewCycleRepository(database)

	tariffService := service.NewTariffService(tariffRepo)
	distanceService := service.NewDistanceService(distanceRepo)
	lifecycleService := service.NewLifecycleService(loadRepo, log)
	costService := service.NewCostService(loadRepo, cycleRepo, tariffService, distanceService, log)
	cycleService := service.NewCycleService(cycleRepo, loadRepo, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(lifecycleService, costService, tariffService, distanceService, cycleService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting billing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
