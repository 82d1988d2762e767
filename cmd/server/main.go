package main

import (
	"flag"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardhall-service/internal/api"
	"cardhall-service/internal/config"
	"cardhall-service/internal/repo"
	"cardhall-service/internal/service"
	"cardhall-service/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	config.LoadConfig(*configPath)
	logger.InitLogger(config.GlobalConfig.Server.Mode)
	defer logger.Log.Sync()

	gin.SetMode(config.GlobalConfig.Server.Mode)

	db := repo.InitDB()
	rdb := repo.InitRedis()
	container := service.NewContainer(db, rdb)

	r := api.NewRouter(container)
	addr := ":" + config.GlobalConfig.Server.Port
	logger.Log.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}
