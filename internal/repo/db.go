package repo

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cardhall-service/internal/config"
	"cardhall-service/internal/model"
	"cardhall-service/pkg/logger"
)

// InitDB connects to postgres and migrates the schema.
func InitDB() *gorm.DB {
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect database: " + err.Error())
	}
	if err := AutoMigrate(db); err != nil {
		logger.Log.Fatal("failed to migrate database: " + err.Error())
	}
	return db
}

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.MatchRecord{},
		&model.MatchSeat{},
		&model.PlayerStat{},
	)
}
