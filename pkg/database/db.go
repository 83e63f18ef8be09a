package database

import (
	"Quickr/config"
	"Quickr/models"
	"Quickr/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewDB 仅归档投递需要数据库, 其余模式返回 nil
func NewDB(conf *config.Config) *gorm.DB {
	if conf.Submit.Sink != config.SinkArchive {
		return nil
	}
	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), &gorm.Config{})
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Submission{}); err != nil {
		log.L.Fatal("failed to migrate database", zap.Error(err))
	}
	log.L.Info("connect database success")
	return db
}
