package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"goblog/pkg/logger"
)

func main() {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	var err error
	cfg, err = loadConfig()
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Dev})
	jwtSecret = []byte(cfg.JWTSecret)

	// `goblog migrate` runs schema migration and exits. Useful for CI
	// or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg)
		log.Info().Msg("migration completed")
		return
	}

	setupValidation()
	initDB(cfg)

	posts = NewPostService(db)
	accounts = NewAccountService(db, cfg.Media)
	views = newViewRenderer("templates", cfg.Dev)

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	setupRoutes(r)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
