package main

import (
	"errors"
	"net/http"
	"strings"

	"goblog/pkg/avatar"

	"github.com/gin-gonic/gin"
)

type registerForm struct {
	Username        string `form:"username" binding:"omitempty,username"`
	Email           string `form:"email" binding:"omitempty,email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

func registerFormHandler(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Username": "", "Email": ""})
}

func registerHandler(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		countOutcome("register", err)
		render(c, http.StatusOK, "register.html", gin.H{
			"Errors":   bindingErrors(err),
			"Username": c.PostForm("username"),
			"Email":    c.PostForm("email"),
		})
		return
	}
	_, err := accounts.Register(RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	})
	countOutcome("register", err)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			render(c, http.StatusOK, "register.html", gin.H{
				"Errors":   verr.Fields,
				"Username": form.Username,
				"Email":    form.Email,
			})
			return
		}
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	setFlash(c, "Account has been successfully created. You can now login")
	c.Redirect(http.StatusFound, "/login")
}

func loginFormHandler(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Next": c.Query("next"), "Username": ""})
}

func loginHandler(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	user, err := authenticate(db, username, password)
	if err != nil {
		render(c, http.StatusOK, "login.html", gin.H{
			"Error":    "invalid username or password",
			"Username": username,
			"Next":     c.PostForm("next"),
		})
		return
	}
	token, err := mintSession(user, cfg.SessionTTL)
	if err != nil {
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	setSessionCookie(c, token, cfg.SessionTTL)
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

func logoutHandler(c *gin.Context) {
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func profileHandler(c *gin.Context) {
	actor := currentUser(c)
	profile, err := accounts.ProfileFor(actor)
	if err != nil {
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{
		"Username": actor.Username,
		"Email":    actor.Email,
		"Image":    "/media/" + profile.Image,
	})
}

func updateProfileHandler(c *gin.Context) {
	actor := currentUser(c)
	changes := ProfileChanges{}
	if v, ok := c.GetPostForm("username"); ok {
		changes.Username = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		changes.Email = &v
	}
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			c.String(http.StatusInternalServerError, "server error")
			return
		}
		defer f.Close()
		changes.Image = f
	}

	profile, err := accounts.UpdateProfile(actor, changes)
	countOutcome("profile_update", err)
	if err != nil {
		profileFailure(c, err, actor.Username, actor.Email)
		return
	}
	if changes.empty() {
		// nothing to apply: show the form with the stored values
		render(c, http.StatusOK, "profile.html", gin.H{
			"Username": actor.Username,
			"Email":    actor.Email,
			"Image":    "/media/" + profile.Image,
		})
		return
	}
	setFlash(c, "Your profile has been updated")
	c.Redirect(http.StatusFound, "/profile")
}

// profileFailure redisplays the profile form with the stored values;
// rejected input is discarded.
func profileFailure(c *gin.Context, err error, username, email string) {
	stored, lookupErr := accounts.ProfileFor(currentUser(c))
	image := cfg.Media.DefaultAvatar
	if lookupErr == nil {
		image = stored.Image
	}
	data := gin.H{
		"Username": username,
		"Email":    email,
		"Image":    "/media/" + image,
	}
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		redirectToLogin(c)
		return
	case errors.As(err, &verr):
		data["Errors"] = verr.Fields
	case errors.Is(err, avatar.ErrInvalidImage):
		data["Errors"] = map[string]string{"image": "the uploaded file is not a valid image"}
	default:
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	render(c, http.StatusOK, "profile.html", data)
}
