package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"physio-notes-be/internal/bootstrap"
	"physio-notes-be/internal/config"
	"physio-notes-be/internal/server"
	"physio-notes-be/internal/tracer"
	"physio-notes-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Otel)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 5. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		container.Logger.Info("Main", "Starting session event consumer", nil)
		if err := container.ConsumerService.Consume(ctx); err != nil {
			container.Logger.Error("Main", "Session event consumer stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		container.Logger.Info("Main", "Shutting down", nil)
		cancel()
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("Main", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
