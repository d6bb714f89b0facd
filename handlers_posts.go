package main

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"goblog/models"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// postView is what listing templates consume.
type postView struct {
	Title   string
	Slug    string
	Author  string
	Date    string
	Excerpt string
}

func excerpt(content string) string {
	const max = 200
	if len(content) <= max {
		return content
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "…"
}

func toPostViews(items []models.Post) []postView {
	return lo.Map(items, func(p models.Post, _ int) postView {
		return postView{
			Title:   p.Title,
			Slug:    p.Slug,
			Author:  p.Author.Username,
			Date:    p.DatePosted.Format("Jan 2, 2006"),
			Excerpt: excerpt(p.Content),
		}
	})
}

func homeHandler(c *gin.Context) {
	items, err := posts.Recent()
	if err != nil {
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{"Posts": toPostViews(items)})
}

func userPostsHandler(c *gin.Context) {
	author, items, err := posts.ByAuthor(c.Param("username"))
	if errors.Is(err, ErrNotFound) {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	for i := range items {
		items[i].Author = *author
	}
	render(c, http.StatusOK, "user_posts.html", gin.H{
		"Author": author.Username,
		"Posts":  toPostViews(items),
	})
}

func aboutHandler(c *gin.Context) {
	render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func postDetailHandler(c *gin.Context) {
	post, err := posts.BySlug(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	render(c, http.StatusOK, "post_detail.html", gin.H{"Post": post})
}

func newPostFormHandler(c *gin.Context) {
	render(c, http.StatusOK, "post_form.html", gin.H{"Action": "/new", "Title": "", "Content": ""})
}

func createPostHandler(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	post, err := posts.Create(currentUser(c), title, content)
	countOutcome("post_create", err)
	if err != nil {
		postFormFailure(c, err, "/new", title, content)
		return
	}
	c.Redirect(http.StatusFound, "/post/"+post.Slug)
}

func editPostFormHandler(c *gin.Context) {
	slugStr := c.Param("slug")
	actor := currentUser(c)
	if actor == nil {
		redirectToLogin(c)
		return
	}
	post, err := posts.BySlug(slugStr)
	if err != nil {
		postMutationFailure(c, err)
		return
	}
	if actor.ID != post.AuthorID {
		c.String(http.StatusForbidden, "403 forbidden")
		return
	}
	render(c, http.StatusOK, "post_form.html", gin.H{
		"Action":  "/post/" + slugStr + "/edit",
		"Title":   post.Title,
		"Content": post.Content,
	})
}

func updatePostHandler(c *gin.Context) {
	slugStr := c.Param("slug")
	changes := PostChanges{}
	if v, ok := c.GetPostForm("title"); ok {
		changes.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		changes.Content = &v
	}
	post, err := posts.Update(currentUser(c), slugStr, changes)
	countOutcome("post_update", err)
	if err == nil && changes.empty() {
		// nothing to apply: show the edit form with the stored values
		render(c, http.StatusOK, "post_form.html", gin.H{
			"Action":  "/post/" + slugStr + "/edit",
			"Title":   post.Title,
			"Content": post.Content,
		})
		return
	}
	if err != nil {
		// rejected values are discarded; the form comes back with what
		// is actually stored
		if stored, lookupErr := posts.BySlug(slugStr); lookupErr == nil {
			postFormFailure(c, err, "/post/"+slugStr+"/edit", stored.Title, stored.Content)
		} else {
			postMutationFailure(c, err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/post/"+post.Slug)
}

func deletePostHandler(c *gin.Context) {
	err := posts.Delete(currentUser(c), c.Param("slug"))
	countOutcome("post_delete", err)
	if err != nil {
		postMutationFailure(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// postFormFailure resolves a mutation error either to the outcome table's
// hard statuses or to a 200 redisplay of the post form.
func postFormFailure(c *gin.Context, err error, action, title, content string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		render(c, http.StatusOK, "post_form.html", gin.H{
			"Action": action, "Title": title, "Content": content,
			"Errors": verr.Fields,
		})
	case errors.Is(err, ErrUniquenessConflict):
		render(c, http.StatusOK, "post_form.html", gin.H{
			"Action": action, "Title": title, "Content": content,
			"Errors": map[string]string{"title": "a post with this title already exists"},
		})
	default:
		postMutationFailure(c, err)
	}
}

// postMutationFailure handles the non-form outcomes shared by all post
// mutations.
func postMutationFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		redirectToLogin(c)
	case errors.Is(err, ErrForbidden):
		c.String(http.StatusForbidden, "403 forbidden")
	case errors.Is(err, ErrNotFound):
		c.String(http.StatusNotFound, "404 page not found")
	default:
		c.String(http.StatusInternalServerError, "server error")
	}
}
