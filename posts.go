package main

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"goblog/models"
	"goblog/pkg/slug"

	"gorm.io/gorm"
)

// PostService applies create/update/delete mutations to posts. Failure
// conditions are checked in a fixed order so callers always observe the
// same outcome when several hold at once:
//
//	authentication -> existence -> ownership -> validation
//
// In particular an unauthenticated actor gets the login redirect even
// for a slug that does not exist.
type PostService struct {
	db *gorm.DB
}

func NewPostService(g *gorm.DB) *PostService {
	return &PostService{db: g}
}

// PostChanges carries the optional fields of an update. Nil means
// "leave unchanged"; an all-nil value makes Update a no-op.
type PostChanges struct {
	Title   *string
	Content *string
}

func (ch PostChanges) empty() bool {
	return ch.Title == nil && ch.Content == nil
}

// Create validates and persists a new post for actor. The slug is
// derived from the title and pre-checked against existing posts so a
// title collision surfaces as a friendly conflict rather than a raw
// constraint violation.
func (s *PostService) Create(actor *models.User, title, content string) (*models.Post, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	verr := &ValidationError{}
	if strings.TrimSpace(title) == "" {
		verr.add("title", "title is required")
	}
	if strings.TrimSpace(content) == "" {
		verr.add("content", "content is required")
	}
	if utf8.RuneCountInString(title) > 60 {
		verr.add("title", "title must be at most 60 characters")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	sl := slug.Make(title)
	if s.slugTaken(sl, 0) {
		return nil, ErrUniquenessConflict
	}

	post := models.Post{
		Title:      title,
		Content:    content,
		DatePosted: time.Now(),
		AuthorID:   actor.ID,
		Slug:       sl,
	}
	if err := s.db.Create(&post).Error; err != nil {
		if isUniqueConstraintError(err) { // lost the race after the pre-check
			return nil, ErrUniquenessConflict
		}
		return nil, err
	}
	return &post, nil
}

// Update applies changes to the post identified by slugStr. An empty
// change set is a successful no-op returning the post as stored. The
// slug is recomputed on every successful save, even when the title is
// unchanged.
func (s *PostService) Update(actor *models.User, slugStr string, changes PostChanges) (*models.Post, error) {
	post, err := s.authorize(actor, slugStr)
	if err != nil {
		return nil, err
	}
	if changes.empty() {
		return post, nil
	}

	title := post.Title
	if changes.Title != nil {
		title = *changes.Title
	}
	verr := &ValidationError{}
	if strings.TrimSpace(title) == "" {
		verr.add("title", "title is required")
	}
	if utf8.RuneCountInString(title) > 60 {
		verr.add("title", "title must be at most 60 characters")
	}
	if changes.Content != nil && strings.TrimSpace(*changes.Content) == "" {
		verr.add("content", "content is required")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	newSlug := slug.Make(title)
	if newSlug != post.Slug && s.slugTaken(newSlug, post.ID) {
		return nil, ErrUniquenessConflict
	}

	post.Title = title
	if changes.Content != nil {
		post.Content = *changes.Content
	}
	post.Slug = newSlug
	if err := s.db.Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUniquenessConflict
		}
		return nil, err
	}
	return post, nil
}

// Delete removes the post permanently. Same authentication, existence
// and ownership sequencing as Update.
func (s *PostService) Delete(actor *models.User, slugStr string) error {
	post, err := s.authorize(actor, slugStr)
	if err != nil {
		return err
	}
	return s.db.Delete(post).Error
}

// BySlug returns the post for a detail page.
func (s *PostService) BySlug(slugStr string) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("Author").Where("slug = ?", slugStr).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Recent returns the newest posts for the listing page.
func (s *PostService) Recent() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Author").Order("date_posted desc").Limit(100).Find(&posts).Error
	return posts, err
}

// ByAuthor returns a user's posts, newest first. An unknown username is
// a NotFound, matching the listing page contract.
func (s *PostService) ByAuthor(username string) (*models.User, []models.Post, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var posts []models.Post
	if err := s.db.Where("author_id = ?", user.ID).Order("date_posted desc").Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	return &user, posts, nil
}

// authorize runs the shared failure ordering for mutations on an
// existing post and returns it when actor is the author.
func (s *PostService) authorize(actor *models.User, slugStr string) (*models.Post, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	var post models.Post
	err := s.db.Where("slug = ?", slugStr).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	return &post, nil
}

// slugTaken reports whether a different post (id != exclude) already
// owns sl.
func (s *PostService) slugTaken(sl string, exclude uint) bool {
	var n int64
	s.db.Model(&models.Post{}).Where("slug = ? AND id <> ?", sl, exclude).Count(&n)
	return n > 0
}
