package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"snake_arena/internal/config"
	"snake_arena/internal/game"
	httpMiddleware "snake_arena/internal/http/middleware"
	"snake_arena/internal/logger"
	"snake_arena/internal/ws"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat == "json")
	log := logger.Get()

	gameCfg := game.Config{
		Width:    cfg.GridWidth,
		Height:   cfg.GridHeight,
		Block:    cfg.BlockSize,
		TickRate: cfg.TickRate,
	}
	hub := ws.NewHub(gameCfg, time.Duration(cfg.BroadcastMS)*time.Millisecond)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом (разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpMiddleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, 0)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	wsHandler := ws.NewWSHandler(hub)
	r.GET("/ws", httpMiddleware.RateLimit(60, time.Minute), wsHandler.HandleWS())

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version,
			"grid", cfg.GridWidth, "tick_rate", cfg.TickRate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
