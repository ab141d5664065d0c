package main

import (
	"log"

	"github.com/tropicaldog17/rwa/internal/config"
	"github.com/tropicaldog17/rwa/internal/db"
	"github.com/tropicaldog17/rwa/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	database, err := db.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	applied, err := db.Migrate(database)
	for _, m := range applied {
		zlog.Info("Migration completed", zap.Int("version", m.ID), zap.String("file", m.Filename))
	}
	if err != nil {
		zlog.Fatal("Migration failed", zap.Error(err))
	}
	zlog.Info("All migrations completed successfully", zap.Int("applied", len(applied)))
}
