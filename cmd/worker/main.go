package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"checkin/internal/config"
	"checkin/internal/queue"
	"checkin/internal/recorder"
	"checkin/internal/store"
)

// Worker drains the attendance queue into Postgres. The check-in path only
// ever publishes; this process is what makes records "eventually recorded".
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient, err := store.NewRedis(ctx, cfg.RedisAddr)
	if err != nil && cfg.QueueBackend != "memory" {
		log.Fatalf("redis connect failed: %v", err)
	}
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "checkin:attendance")
	}

	repo := recorder.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != recorder.MessageTypeAttendance {
			continue
		}

		var rec recorder.Record
		if err := json.Unmarshal(msg.Body, &rec); err != nil {
			log.Printf("malformed attendance message: %v", err)
			continue
		}

		if err := repo.InsertRecord(ctx, rec); err != nil {
			log.Printf("insert record for session %s user %s failed: %v", rec.AttendanceID, rec.UserID, err)
			continue
		}
		log.Printf("recorded attendance: session=%s user=%s", rec.AttendanceID, rec.UserID)
	}

	log.Println("worker stopped")
}
