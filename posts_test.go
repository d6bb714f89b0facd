package main

import (
	"errors"
	"strings"
	"testing"

	"goblog/models"
)

func strptr(s string) *string { return &s }

func TestPostCreate(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")

	post, err := svc.Create(user, "test Post", "test Post content")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Slug != "test_Post" {
		t.Fatalf("slug = %q, want test_Post", post.Slug)
	}
	if post.AuthorID != user.ID {
		t.Fatalf("author = %d, want %d", post.AuthorID, user.ID)
	}
	if post.DatePosted.IsZero() {
		t.Fatal("DatePosted not set")
	}
}

func TestPostCreateValidation(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")

	cases := []struct {
		name           string
		title, content string
	}{
		{"missing title", "", "content"},
		{"missing content", "a title", ""},
		{"blank title", "   ", "content"},
		{"overlong title", "0123456789012345678901234567890123456789012345678901234567890", "content"},
	}
	for _, c := range cases {
		_, err := svc.Create(user, c.title, c.content)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: got %v, want ValidationError", c.name, err)
		}
	}
	var n int64
	g.Model(&models.Post{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no posts persisted, found %d", n)
	}
}

func TestPostTitleLengthCountsCharacters(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")

	// 60 multibyte characters is within the limit even though the
	// byte length is twice that.
	post, err := svc.Create(user, strings.Repeat("\u00e9", 60), "content")
	if err != nil {
		t.Fatalf("60-character title rejected: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("expected persisted post")
	}

	_, err = svc.Create(user, strings.Repeat("\u00e9", 61), "content")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("61-character title: got %v, want ValidationError", err)
	}
}

func TestPostCreateRequiresAuthentication(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)

	_, err := svc.Create(nil, "test Post", "content")
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("got %v, want ErrAuthenticationRequired", err)
	}
}

func TestPostCreateSlugConflict(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	other := createTestUser(t, g, "otherUser")

	if _, err := svc.Create(user, "test Post", "first"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(other, "test Post", "second")
	if !errors.Is(err, ErrUniquenessConflict) {
		t.Fatalf("got %v, want ErrUniquenessConflict", err)
	}
	var n int64
	g.Model(&models.Post{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one post, found %d", n)
	}
	var stored models.Post
	g.First(&stored)
	if stored.Content != "first" {
		t.Fatalf("original post was modified: %q", stored.Content)
	}
}

func TestPostUpdate(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	if _, err := svc.Create(user, "test Post", "test Post content"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, err := svc.Update(user, "test_Post", PostChanges{
		Title:   strptr("test Post Updated"),
		Content: strptr("updated content"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if post.Slug != "test_Post_Updated" {
		t.Fatalf("slug = %q, want test_Post_Updated", post.Slug)
	}
	if post.Content != "updated content" {
		t.Fatalf("content = %q", post.Content)
	}

	// the old slug no longer resolves
	if _, err := svc.BySlug("test_Post"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old slug still resolves: %v", err)
	}
	if _, err := svc.BySlug("test_Post_Updated"); err != nil {
		t.Fatalf("new slug does not resolve: %v", err)
	}
}

func TestPostUpdateNoChangesIsNoop(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	created, err := svc.Create(user, "test Post", "test Post content")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, err := svc.Update(user, "test_Post", PostChanges{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if post.Title != created.Title || post.Content != created.Content || post.Slug != created.Slug {
		t.Fatalf("no-op update changed the post: %+v", post)
	}
	var stored models.Post
	g.First(&stored, created.ID)
	if stored.Title != "test Post" || stored.Content != "test Post content" || stored.Slug != "test_Post" {
		t.Fatalf("stored post changed: %+v", stored)
	}
}

func TestPostUpdateFailureOrdering(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	stranger := createTestUser(t, g, "stranger")
	if _, err := svc.Create(user, "test Post", "content"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// authentication is checked before existence
	if _, err := svc.Update(nil, "no_such_post", PostChanges{}); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("anonymous update of missing slug: got %v, want ErrAuthenticationRequired", err)
	}
	// existence before ownership
	if _, err := svc.Update(stranger, "no_such_post", PostChanges{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	// ownership before validation
	if _, err := svc.Update(stranger, "test_Post", PostChanges{Title: strptr("")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestPostUpdateSlugConflict(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	if _, err := svc.Create(user, "test Post", "content one"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(user, "test Post1", "content two"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := svc.Update(user, "test_Post", PostChanges{Title: strptr("test Post1")})
	if !errors.Is(err, ErrUniquenessConflict) {
		t.Fatalf("got %v, want ErrUniquenessConflict", err)
	}
	var stored models.Post
	g.Where("slug = ?", "test_Post").First(&stored)
	if stored.Title != "test Post" {
		t.Fatalf("rejected update was applied: %+v", stored)
	}
}

func TestPostUpdateKeepingTitleIsNotAConflict(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	if _, err := svc.Create(user, "test Post", "content"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// resubmitting the unchanged title collides only with itself
	post, err := svc.Update(user, "test_Post", PostChanges{
		Title:   strptr("test Post"),
		Content: strptr("new content"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if post.Slug != "test_Post" || post.Content != "new content" {
		t.Fatalf("unexpected post after update: %+v", post)
	}
}

func TestPostDelete(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	stranger := createTestUser(t, g, "stranger")
	if _, err := svc.Create(user, "test Post", "content"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(nil, "test_Post"); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("anonymous delete: got %v", err)
	}
	if err := svc.Delete(stranger, "test_Post"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete: got %v", err)
	}
	if err := svc.Delete(user, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing slug delete: got %v", err)
	}

	if err := svc.Delete(user, "test_Post"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var n int64
	g.Model(&models.Post{}).Count(&n)
	if n != 0 {
		t.Fatalf("post still present after delete")
	}
}

func TestPostsByAuthor(t *testing.T) {
	g := newTestDB(t)
	svc := NewPostService(g)
	user := createTestUser(t, g, "testUser")
	if _, err := svc.Create(user, "test Post", "content"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	author, items, err := svc.ByAuthor("testUser")
	if err != nil {
		t.Fatalf("ByAuthor: %v", err)
	}
	if author.ID != user.ID || len(items) != 1 {
		t.Fatalf("unexpected result: author=%+v items=%d", author, len(items))
	}

	if _, _, err := svc.ByAuthor("testUser0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown author: got %v, want ErrNotFound", err)
	}
}
