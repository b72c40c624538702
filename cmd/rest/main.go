package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"notebooklm-be/internal/bootstrap"
	"notebooklm-be/internal/config"
	"notebooklm-be/internal/server"
	"notebooklm-be/internal/tracer"
	"notebooklm-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Graceful Shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down, persisting notebook state...")
		if err := container.Persistence.Persist(context.Background()); err != nil {
			log.Printf("Failed to persist state on shutdown: %v", err)
		}
		if err := container.Providers.Close(); err != nil {
			log.Printf("Failed to close AI providers: %v", err)
		}
		_ = container.Logger.Sync()
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
