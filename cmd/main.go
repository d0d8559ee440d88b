package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"teahouse-storefront/internal/cart"
	"teahouse-storefront/internal/checkout"
	"teahouse-storefront/internal/config"
	"teahouse-storefront/internal/database"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/messaging"
	"teahouse-storefront/internal/payment"
	"teahouse-storefront/internal/realtime"
	"teahouse-storefront/internal/services/auth"
	"teahouse-storefront/internal/services/catalog"
	"teahouse-storefront/internal/services/notification"
	"teahouse-storefront/internal/services/order"
	"teahouse-storefront/internal/services/storefront"
	"teahouse-storefront/internal/web"
)

func main() {
	var (
		mode     = flag.String("mode", "", "Service mode (storefront, notification-subscriber)")
		port     = flag.Int("port", 3000, "HTTP port")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "storefront":
		if err := runStorefront(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "Storefront failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runStorefront runs the customer-facing HTTP service with the admin panel.
func runStorefront(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
		DB:   cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("redis_connected", "Connected to Redis", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	catalogRepo := catalog.NewRepository(db)
	catalogSvc := catalog.NewService(catalogRepo, publisher, log)
	catalogHandler := catalog.NewHandler(catalogSvc, log)

	authRepo := auth.NewRepository(db)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authSvc := auth.NewService(authRepo, redisClient, cfg.Auth.JWTSecret, tokenTTL, log)
	authHandler := auth.NewHandler(authSvc, log)

	orderRepo := order.NewRepository(db)
	orderSvc := order.NewService(orderRepo, publisher, log)
	orderHandler := order.NewHandler(orderSvc, log)

	resolver := payment.NewResolver(cfg.Payment, log)
	orchestrator := checkout.New(orderSvc, resolver, log)

	cartStore := cart.NewRedisStore(redisClient, log)
	storefrontHandler := storefront.NewHandler(cartStore, catalogRepo, orderRepo, orchestrator, resolver, log)

	router := mux.NewRouter()
	router.Use(web.WithLogging(log))
	catalogHandler.RegisterRoutes(router, authSvc)
	authHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router, authSvc)
	storefrontHandler.RegisterRoutes(router, authSvc)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: corsHandler.Handler(router),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Storefront started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber runs the console notification listener alongside
// an in-memory mirror of the dish and order tables fed by the change events.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	dishConsumer := messaging.NewConsumer(conn, log, "realtime_dishes_queue", "mirror-dishes", prefetch)
	orderConsumer := messaging.NewConsumer(conn, log, "realtime_orders_queue", "mirror-orders", prefetch)

	mirror := realtime.NewMirror(log)
	go mirror.Run(ctx, realtime.NewFeed(dishConsumer, log), realtime.NewFeed(orderConsumer, log))

	// Periodically report what the mirror has accumulated.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Info("mirror_state", "Mirrored table sizes", "", map[string]interface{}{
					"dishes": len(mirror.Dishes()),
					"orders": len(mirror.Orders()),
				})
			}
		}
	}()

	notifyConsumer := messaging.NewConsumer(conn, log, "notifications_queue", "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(notifyConsumer, log)

	return subscriber.Start(ctx)
}
