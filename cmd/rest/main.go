package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"collab-docs-be/internal/bootstrap"
	"collab-docs-be/internal/config"
	"collab-docs-be/internal/server"
	"collab-docs-be/internal/tracer"
	"collab-docs-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting revision worker...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background revision worker error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Flush open editor sessions on shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down, flushing open documents...")
		container.Sessions.Shutdown()
		_ = srv.GetApp().Shutdown()
	}()

	// 7. Run Server
	log.Fatal(srv.Run())
}
