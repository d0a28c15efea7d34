package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/timeclock/internal/adapters/http/handler"
	"github.com/ogurasousui/timeclock/internal/adapters/repository/postgres"
	"github.com/ogurasousui/timeclock/internal/core/employee"
	"github.com/ogurasousui/timeclock/internal/core/shift"
	"github.com/ogurasousui/timeclock/internal/platform/config"
	pg "github.com/ogurasousui/timeclock/internal/platform/db/postgres"
	"github.com/ogurasousui/timeclock/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は任意です。無ければそのまま環境変数だけで動きます。
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	shiftRepo := postgres.NewShiftRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, nil, txManager, nil)
	shiftSvc := shift.NewService(employeeRepo, shiftRepo, nil, txManager, cfg.Shift.HistorySince)

	router := handler.NewRouter(employeeSvc, shiftSvc, dbPool.Ping)
	httpServer := server.New(cfg.Server.ListenAddr, router)

	log.Printf("HTTP server listening on %s", cfg.Server.ListenAddr)

	if err := httpServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
