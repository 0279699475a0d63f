package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/checkout"
	"github.com/rentgear/go-rental-store/internal/config"
	"github.com/rentgear/go-rental-store/internal/httpx"
	kafkax "github.com/rentgear/go-rental-store/internal/kafka"
	"github.com/rentgear/go-rental-store/internal/postgres"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	prod := kafkax.NewProducer(cfg.KafkaBrokers, booking.TopicOrderPlaced, 1024)
	prod.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, booking.TopicOrderStatusChanged, 256)
	prodStatus.Start(ctx)

	repo := &booking.Repo{DB: db}
	svc := &checkout.Service{
		Store:       repo,
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.StoreHandler{Repo: repo, Checkout: svc, Redis: rdb}).Register(router)
	(&httpx.CartHandler{Repo: repo, Redis: rdb}).Register(router)
	(&httpx.AdminHandler{
		Repo:        repo,
		Reconciler:  &booking.Reconciler{Store: repo},
		Redis:       rdb,
		Producer:    prodStatus,
		ServiceName: cfg.ServiceName,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prodStatus.Close()
	cancel()
	prod.WaitClosed()
	prodStatus.WaitClosed()
}
