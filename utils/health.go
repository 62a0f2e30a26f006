package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus is the latest dependency probe result surfaced on /health.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	CacheRedis   bool      `json:"cacheRedis"`
	SessionRedis bool      `json:"sessionRedis"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the most recent probe snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor probes Mongo and both Redis clients on an interval and
// keeps the snapshot in memory. The first probe runs immediately so /health
// is meaningful right after startup.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client) {
	probe := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status := HealthStatus{CheckedAt: time.Now().UTC()}
		if len(redisClients) > 0 {
			status.CacheRedis = redisClients[0].Ping(ctx).Err() == nil
		}
		if len(redisClients) > 1 {
			status.SessionRedis = redisClients[1].Ping(ctx).Err() == nil
		}
		status.Mongo = mongoClient.Ping(ctx, nil) == nil

		if !status.Mongo || !status.CacheRedis || !status.SessionRedis {
			GetLogger().Warn("dependency health degraded",
				zap.Bool("mongo", status.Mongo),
				zap.Bool("cacheRedis", status.CacheRedis),
				zap.Bool("sessionRedis", status.SessionRedis))
		}

		healthMu.Lock()
		currentHealth = status
		healthMu.Unlock()
	}

	go func() {
		probe()
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			probe()
		}
	}()
}
