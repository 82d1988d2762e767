package service

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cardhall-service/internal/service/auth"
	"cardhall-service/internal/service/history"
	"cardhall-service/internal/service/table"
)

// Container wires every service together for the router.
type Container struct {
	Auth    *auth.Service
	History *history.Service
	Table   *table.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	historySvc := history.NewService(db, rdb)
	return &Container{
		Auth:    auth.NewService(db, rdb),
		History: historySvc,
		Table:   table.NewService(historySvc),
	}
}
