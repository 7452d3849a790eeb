package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/basket"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/catalog"
	h "github.com/ludmilpaulo/ClinicSystemMobile/internal/http"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/orderapi"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/payment"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/storage"
)

type Config struct {
	HTTPPort           string
	CatalogAPIBase     string
	OrderAPIBase       string
	PaymentAPIBase     string
	StorageBackend     string
	RedisAddr          string
	RedisPassword      string
	MongoURI           string
	MongoDBName        string
	RequestTimeout     time.Duration
	PaymentWaitTimeout time.Duration
	ShutdownTimeout    time.Duration
	Merchant           payment.MerchantConfig
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CatalogAPIBase:     getEnv("CATALOG_API_BASE", "http://localhost:8000"),
		OrderAPIBase:       getEnv("ORDER_API_BASE", "http://localhost:8000"),
		PaymentAPIBase:     getEnv("PAYMENT_API_BASE", "https://sandbox.payfast.co.za"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "redis"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "storefrontdb"),
		RequestTimeout:     30 * time.Second,
		PaymentWaitTimeout: 10 * time.Minute,
		ShutdownTimeout:    10 * time.Second,
		Merchant: payment.MerchantConfig{
			MerchantID:  getEnv("PAYFAST_MERCHANT_ID", ""),
			MerchantKey: getEnv("PAYFAST_MERCHANT_KEY", ""),
			ReturnURL:   getEnv("PAYFAST_RETURN_URL", ""),
			CancelURL:   getEnv("PAYFAST_CANCEL_URL", ""),
			NotifyURL:   getEnv("PAYFAST_NOTIFY_URL", ""),
			Passphrase:  getEnv("PAYFAST_PASSPHRASE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	store, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}
	defer cleanup()

	baskets := basket.NewManager(store)
	catalogClient := catalog.NewClient(cfg.CatalogAPIBase, cfg.RequestTimeout)
	orderClient := orderapi.NewClient(cfg.OrderAPIBase, cfg.RequestTimeout)
	paymentClient := payment.NewClient(cfg.PaymentAPIBase, cfg.RequestTimeout)
	notifier := payment.NewNotifier()

	catalogHandler := h.NewCatalogHandler(catalogClient, cfg.RequestTimeout)
	basketHandler := h.NewBasketHandler(baskets, catalogClient, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(baskets, orderClient, paymentClient, notifier, cfg.Merchant, cfg.RequestTimeout, cfg.PaymentWaitTimeout)
	notifyHandler := h.NewNotifyHandler(notifier)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Provider webhook, outside the authenticated surface
	r.Post("/payment/notify", notifyHandler.Notify)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.MockAuthMiddleware)

		r.Get("/products", catalogHandler.Products)
		r.Get("/categories", catalogHandler.Categories)

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", basketHandler.Get)
			r.Delete("/", basketHandler.Clear)
			r.Post("/items", basketHandler.AddItem)
			r.Post("/items/{product_id}/decrement", basketHandler.Decrement)
			r.Delete("/items/{product_id}", basketHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func openStorage(ctx context.Context, cfg *Config) (storage.BasketStorage, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		return storage.NewRedisStorage(client), func() { client.Close() }, nil

	case "mongo":
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		st := storage.NewMongoStorage(db)
		if err := st.CreateIndexes(ctx); err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		return st, func() { db.Client().Disconnect(ctx) }, nil

	default:
		log.Printf("Using in-memory basket storage (backend %q)", cfg.StorageBackend)
		return storage.NewMemoryStorage(), func() {}, nil
	}
}
