package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopstock/config"
	"shopstock/internal/cache"
	"shopstock/internal/database"
	"shopstock/internal/hashing"
	"shopstock/internal/logger"
	"shopstock/internal/producer"
	"shopstock/internal/repository"
	"shopstock/internal/service"
	"shopstock/internal/token"
	transport "shopstock/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	defer database.Close(db, log)

	repos := repository.New(db)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	hasher := hashing.NewBcrypt(0)

	var refreshStore service.RefreshStore
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("cannot connect to redis", zap.Error(err))
		}
		defer rc.Close()
		refreshStore = rc
		log.Info("refresh tokens enabled")
	} else {
		log.Info("redis disabled, refresh tokens unavailable")
	}

	var events service.EventBus
	if cfg.Kafka.Enabled {
		prod := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer prod.Close()
		events = prod
		log.Info("kafka producer enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	svcs := transport.Services{
		Auth:     service.NewAuthService(repos, hasher, tokens, refreshStore, cfg.JWT.AccessExp, cfg.JWT.RefreshExp),
		Catalog:  service.NewCatalogService(repos),
		Cart:     service.NewCartService(repos),
		Orders:   service.NewOrderService(repos, events),
		Stock:    service.NewStockService(repos),
		Purchase: service.NewPurchaseService(repos),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: transport.Router(svcs, tokens, log),
	}

	go func() {
		log.Info("http server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	log.Info("http server stopped gracefully")
}
