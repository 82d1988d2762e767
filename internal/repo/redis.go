package repo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"cardhall-service/internal/config"
	"cardhall-service/pkg/logger"
)

// InitRedis connects and pings the configured redis instance.
func InitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.GlobalConfig.Redis.Addr,
		Password: config.GlobalConfig.Redis.Password,
		DB:       config.GlobalConfig.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("failed to connect redis: " + err.Error())
	}
	return client
}
