// Entry point for the tycoon finance service. Only dependency wiring and
// server lifecycle live here.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "tycoon-backend/internal/adapter/http"
	midware "tycoon-backend/internal/adapter/middleware"
	"tycoon-backend/internal/adapter/repository/mysql"
	"tycoon-backend/internal/adapter/ws"
	"tycoon-backend/internal/config"
	"tycoon-backend/internal/domain/finance"
	"tycoon-backend/internal/domain/game"
	"tycoon-backend/internal/engine"
	"tycoon-backend/internal/infrastructure/cache"
	"tycoon-backend/internal/infrastructure/db"
	usecase "tycoon-backend/internal/usecase/finance"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional archive store
	var archive finance.Archive
	if cfg.ArchiveEnabled {
		gdb, err := db.OpenGorm(cfg.MySQLDSN(), logger)
		if err != nil {
			logger.Fatal("mysql connect failed", zap.Error(err))
		}
		if err := db.Migrate(gdb); err != nil {
			logger.Fatal("migrate failed", zap.Error(err))
		}
		archive = mysql.NewArchiveRepository(gdb)
	}

	// Simulation state and core
	now := time.Now().UTC()
	state := finance.NewFinanceState(now)
	state.EMIInterval = float64(cfg.EMIIntervalMS)
	gameState := &game.State{Balance: cfg.StartBalance, Level: cfg.StartLevel}

	lifecycle := usecase.NewLifecycle(finance.DefaultCatalog(), state, gameState, archive, logger)
	processor := engine.NewProcessor(lifecycle, state, gameState, finance.DefaultUnlockRules(), logger)

	hub := ws.NewHub(logger)
	eng := engine.New(state, gameState, lifecycle, processor, hub, logger)
	ticker := engine.NewTicker(eng, time.Duration(cfg.TickMS)*time.Millisecond, logger)

	go hub.Run(ctx)
	go eng.Run(ctx)
	go ticker.Start(ctx)

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	h := httpadp.NewHandler()
	fh := httpadp.NewFinanceHandler(eng, archive)
	sh := httpadp.NewStateHandler(eng)

	e.GET("/health", h.Health)
	e.GET("/ws", hub.ServeWS)

	api := e.Group("/api")
	if cfg.IdempotencyEnabled {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			logger.Fatal("redis connect failed", zap.Error(err))
		}
		ttl := time.Duration(cfg.IdempTTLSecs) * time.Second
		api.Use(midware.IdempotencyMiddleware(rdb, ttl, logger))
	}

	api.GET("/finance", fh.GetFinance)
	api.GET("/finance/schedule", fh.GetSchedule)
	api.GET("/finance/history", fh.GetHistory)
	api.POST("/finance/loans", fh.TakeLoan)
	api.POST("/finance/loans/emi", fh.PayEMI)
	api.POST("/finance/loans/preclose", fh.PreClose)

	api.GET("/state", sh.GetState)
	api.POST("/state/properties", sh.BuyProperty)
	api.POST("/state/level", sh.SetLevel)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
