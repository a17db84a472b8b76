package main

import (
	"context"
	"log"

	"github.com/bytebender77/honeypot/internal/bootstrap"
	"github.com/bytebender77/honeypot/internal/config"
	"github.com/bytebender77/honeypot/internal/server"
	"github.com/bytebender77/honeypot/internal/tracer"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Reporter Service...")
		if err := container.ReporterService.Consume(context.Background()); err != nil {
			log.Printf("Background Reporter Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
