package main

import (
	"errors"

	"goblog/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// errInvalidCredentials is deliberately uniform: callers cannot tell a
// missing user from a wrong password.
var errInvalidCredentials = errors.New("invalid credentials")

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// authenticate checks a username/password pair against the identity store.
func authenticate(g *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := g.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

func existsByUsername(g *gorm.DB, username string) bool {
	var n int64
	g.Model(&models.User{}).Where("username = ?", username).Count(&n)
	return n > 0
}

func existsByEmail(g *gorm.DB, email string) bool {
	var n int64
	g.Model(&models.User{}).Where("email = ?", email).Count(&n)
	return n > 0
}
