package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Shared service instances, wired in main (and by the test harness).
var (
	cfg      *Config
	posts    *PostService
	accounts *AccountService
)

func setupRoutes(r *gin.Engine) {
	r.Use(sessionMiddleware())

	r.GET("/", homeHandler)
	r.GET("/about", aboutHandler)
	r.GET("/u/:username", userPostsHandler)
	r.GET("/post/:slug", postDetailHandler)

	r.GET("/register", registerFormHandler)
	r.POST("/register", registerHandler)
	r.GET("/login", loginFormHandler)
	r.POST("/login", loginHandler)
	r.POST("/logout", logoutHandler)

	// Mutations check the actor in the service layer so anonymous
	// submissions observe the documented outcome ordering; only the
	// form pages are gated up front.
	r.GET("/new", requireLogin(), newPostFormHandler)
	r.POST("/new", createPostHandler)
	r.GET("/post/:slug/edit", editPostFormHandler)
	r.POST("/post/:slug/edit", updatePostHandler)
	r.POST("/post/:slug/delete", deletePostHandler)

	profileGroup := r.Group("/profile", requireLogin())
	profileGroup.GET("", profileHandler)
	profileGroup.POST("", updateProfileHandler)

	r.Static("/media", cfg.Media.Dir)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
