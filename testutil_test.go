package main

import (
	"fmt"
	"testing"
	"time"

	"goblog/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the schema
// applied. cache=shared keeps all pooled connections on the same DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := autoMigrate(g); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return g
}

func testMedia(t *testing.T) MediaConfig {
	t.Helper()
	return MediaConfig{Dir: t.TempDir(), DefaultAvatar: "default.jpg", MaxDim: 250}
}

func createTestUser(t *testing.T, g *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := hashPassword("somepassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Username: username, Email: username + "@email.com", HashedPassword: hashed}
	if err := g.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	profile := models.Profile{UserID: user.ID, Image: "default.jpg"}
	if err := g.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return &user
}

// setupTestApp wires the package-level services and router against an
// in-memory database, mirroring what main does at startup.
func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db = newTestDB(t)
	cfg = &Config{JWTSecret: "test-secret", SessionTTL: time.Hour, Media: testMedia(t)}
	jwtSecret = []byte(cfg.JWTSecret)
	posts = NewPostService(db)
	accounts = NewAccountService(db, cfg.Media)
	views = newViewRenderer("templates", false)
	setupValidation()
	r := gin.New()
	setupRoutes(r)
	return r
}
