package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
	httpserver "github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/pricing"
)

func main() {
	logger := log.New(os.Stdout, "[cart-session-service] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	catalog := pricing.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		catalog, err = pricing.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			logger.Fatalf("load catalog: %v", err)
		}
	}
	engine := pricing.NewEngine(catalog)

	store := cart.NewMemoryStore()
	router := notify.NewRouter(logger)

	var publisher events.Publisher = router
	var relay *events.RabbitRelay
	if cfg.EventsEnabled {
		rabbitConn := events.MustDial(cfg.RabbitURL)
		defer rabbitConn.Close()

		var err error
		relay, err = events.NewRabbitRelay(rabbitConn, events.NewMemorySequences(),
			func(ev events.Event, seq int64) any {
				return contracts.BuildCartActivityEvent(ev, contracts.EnvelopeOptions{Sequence: seq})
			})
		if err != nil {
			logger.Fatalf("failed to create cart event relay: %v", err)
		}
		publisher = events.Fanout{router, relay}
	}

	service := cart.NewService(store, engine, publisher, logger)

	handler := httpserver.NewCartHandler(service)
	stream := httpserver.NewStreamHandler(service, router, logger)
	mux := httpserver.NewRouter(handler, stream)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("cart-session-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if relay != nil {
		if err := relay.Close(); err != nil {
			logger.Printf("relay close error: %v", err)
		}
	}
}
