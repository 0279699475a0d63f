package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/config"
	kafkax "github.com/rentgear/go-rental-store/internal/kafka"
	"github.com/rentgear/go-rental-store/internal/notify"
	"github.com/rentgear/go-rental-store/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		Sender:      notify.LogSender{},
		ServiceName: cfg.ServiceName + "-notifier",
	}

	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, booking.TopicOrderPlaced, workers)

	go func() {
		log.Printf("notifier started: group=%s topic=%s workers=%d", cfg.NotifierGroup, booking.TopicOrderPlaced, workers)
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
