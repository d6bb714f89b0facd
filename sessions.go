package main

import (
	"net/http"
	"net/url"
	"time"

	"goblog/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "session"

var jwtSecret []byte // set from config at startup

// mintSession returns a signed session token for user.
func mintSession(user *models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// sessionUsername validates the cookie token and extracts the username.
func sessionUsername(tokenString string) (string, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	username, _ := claims["username"].(string)
	return username, username != ""
}

// sessionMiddleware resolves the current actor from the session cookie
// and stashes it in the request context. Requests without a valid
// session continue anonymously.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || cookie == "" {
			c.Next()
			return
		}
		username, ok := sessionUsername(cookie)
		if !ok {
			c.Next()
			return
		}
		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.Next()
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

// currentUser returns the actor attached to the request, or nil for an
// anonymous request.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// redirectToLogin sends an anonymous request to the login form with the
// original target preserved, so login can return the caller to where it
// was headed.
func redirectToLogin(c *gin.Context) {
	next := c.Request.URL.Path
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
	c.Abort()
}

// requireLogin gates routes that need an authenticated actor.
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// setSessionCookie attaches the session token to the response.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
}

// clearSessionCookie logs the browser out.
func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
