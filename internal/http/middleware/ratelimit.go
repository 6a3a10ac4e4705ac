package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"snake_arena/internal/logger"
)

var (
	rdb *redis.Client

	// запасной in-memory лимитер, когда redis не настроен
	memMu      sync.Mutex
	memCounts  = make(map[string]int)
	memResetAt = make(map[string]time.Time)
)

// InitRedisRateLimiter настраивает redis для лимитера. Пустой addr —
// допустимый режим: лимитер работает на локальных счётчиках.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("ratelimit: redis не настроен, локальные счётчики")
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("ratelimit: redis недоступен, локальные счётчики", "error", err)
		rdb = nil
		return
	}
	logger.Info("ratelimit: redis подключен", "addr", addr)
}

// RateLimit ограничивает количество запросов с одного IP за окно
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		over, err := allow(c.Request.Context(), ip, limit, window)
		if err != nil {
			// лимитер не должен ронять запросы при своих сбоях
			logger.Warn("ratelimit: ошибка проверки, пропускаем", "ip", ip, "error", err)
			c.Next()
			return
		}
		if over {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func allow(ctx context.Context, ip string, limit int, window time.Duration) (over bool, err error) {
	if rdb != nil {
		key := "rl:" + ip
		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			return false, err
		}
		if n == 1 {
			rdb.Expire(ctx, key, window)
		}
		return n > int64(limit), nil
	}

	memMu.Lock()
	defer memMu.Unlock()
	now := time.Now()
	if now.After(memResetAt[ip]) {
		memCounts[ip] = 0
		memResetAt[ip] = now.Add(window)
	}
	memCounts[ip]++
	return memCounts[ip] > limit, nil
}
