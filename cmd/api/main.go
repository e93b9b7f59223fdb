package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checkin/internal/checkin"
	"checkin/internal/config"
	"checkin/internal/gateway"
	"checkin/internal/httpmiddleware"
	"checkin/internal/hub"
	"checkin/internal/queue"
	"checkin/internal/recorder"
	"checkin/internal/room"
	"checkin/internal/roster"
	"checkin/internal/store"
	"checkin/internal/token"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		// A failed ping still yields a usable pool; only a nil handle means
		// the pool could not be opened at all.
		if db == nil {
			return fmt.Errorf("open database: %w", err)
		}
		log.Printf("warning: db not reachable: %v", err)
	}
	defer db.Close()

	redisClient, err := store.NewRedis(context.Background(), cfg.RedisAddr)
	if err != nil {
		log.Printf("warning: redis not reachable: %v", err)
	}
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "checkin:attendance")
	}

	codec := token.NewCodec(cfg.TokenSigningKey)
	broadcastHub := hub.New()
	statusRepo := recorder.NewRepository(db.Client)
	registry := room.NewRegistry(codec, broadcastHub, statusRepo, cfg.RoomAutoClose)
	defer registry.Close()

	rosterRepo := roster.NewRepository(db.Client)
	attendanceRecorder := recorder.NewQueueRecorder(q)
	processor := checkin.NewProcessor(registry, codec, rosterRepo, attendanceRecorder, broadcastHub)
	gw := gateway.New(registry, processor, broadcastHub, cfg.TokenTTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil && db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})
	r.GET("/ws", gw.Handle)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would sever long-lived websocket connections.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}
