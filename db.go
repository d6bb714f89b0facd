package main

import (
	"os"
	"path/filepath"

	"goblog/models"
	"goblog/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initDB(cfg *Config) {
	log := logger.Get()
	if cfg.DBDSN == "" {
		log.Fatal().Msg("DB_DSN is not set; a Postgres DSN is required")
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	if err := autoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	ensureMediaDir(cfg.Media)
}

// autoMigrate applies the schema. Shared with the test harness, which
// runs it against an in-memory sqlite database.
func autoMigrate(g *gorm.DB) error {
	return g.AutoMigrate(&models.User{}, &models.Profile{}, &models.Post{})
}

// ensureMediaDir creates the avatar storage directory and warns when
// the placeholder image is missing, since every fresh profile points
// at it.
func ensureMediaDir(mc MediaConfig) {
	log := logger.Get()
	if err := os.MkdirAll(mc.Dir, 0755); err != nil {
		log.Error().Err(err).Str("dir", mc.Dir).Msg("failed to create media dir")
		return
	}
	placeholder := filepath.Join(mc.Dir, mc.DefaultAvatar)
	if _, err := os.Stat(placeholder); err != nil {
		log.Warn().Str("path", placeholder).Msg("default avatar missing; profile pages will show a broken image")
	}
}
