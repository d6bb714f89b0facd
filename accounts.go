package main

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"goblog/models"
	"goblog/pkg/avatar"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountService registers identities and applies profile edits,
// including avatar normalization.
type AccountService struct {
	db    *gorm.DB
	media MediaConfig
}

func NewAccountService(g *gorm.DB, media MediaConfig) *AccountService {
	return &AccountService{db: g, media: media}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// ProfileChanges carries the optional fields of a profile edit. Image,
// when non-nil, is the raw upload and is normalized before anything is
// persisted.
type ProfileChanges struct {
	Username *string
	Email    *string
	Image    io.Reader
}

func (ch ProfileChanges) empty() bool {
	return ch.Username == nil && ch.Email == nil && ch.Image == nil
}

// Register creates a new identity plus its profile, defaulted to the
// placeholder avatar. User and profile are created in one transaction;
// a duplicate username or email creates nothing. The caller is not
// logged in afterwards.
func (s *AccountService) Register(in RegisterInput) (*models.User, error) {
	verr := &ValidationError{}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		verr.add("username", "username is required")
	}
	if email == "" {
		verr.add("email", "email is required")
	}
	if in.Password == "" {
		verr.add("password", "password is required")
	}
	if in.PasswordConfirm == "" {
		verr.add("password_confirm", "password confirmation is required")
	} else if in.Password != in.PasswordConfirm {
		verr.add("password_confirm", "passwords do not match")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	if existsByUsername(s.db, username) {
		return nil, newValidationError("username", "username is already taken")
	}
	if existsByEmail(s.db, email) {
		return nil, newValidationError("email", "email is already in use")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: username, Email: email, HashedPassword: hashed}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{UserID: user.ID, Image: s.media.DefaultAvatar}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) { // raced another registration
			return nil, duplicateIdentityError(err)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies identity and avatar edits for actor. An all-nil
// change set is a successful no-op. The upload is normalized before any
// write happens, so a corrupt image aborts the whole mutation.
func (s *AccountService) UpdateProfile(actor *models.User, changes ProfileChanges) (*models.Profile, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	var profile models.Profile
	if err := s.db.Where("user_id = ?", actor.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if changes.empty() {
		return &profile, nil
	}

	username := actor.Username
	if changes.Username != nil {
		username = strings.TrimSpace(*changes.Username)
	}
	email := actor.Email
	if changes.Email != nil {
		email = strings.TrimSpace(*changes.Email)
	}
	verr := &ValidationError{}
	if username == "" {
		verr.add("username", "username is required")
	}
	if email == "" {
		verr.add("email", "email is required")
	}
	if username != actor.Username && existsByUsername(s.db, username) {
		verr.add("username", "username is already taken")
	}
	if email != actor.Email && existsByEmail(s.db, email) {
		verr.add("email", "email is already in use")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	stored := profile.Image
	if changes.Image != nil {
		ref, err := s.storeAvatar(changes.Image)
		if err != nil {
			return nil, err
		}
		stored = ref
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if username != actor.Username || email != actor.Email {
			if err := tx.Model(&models.User{}).Where("id = ?", actor.ID).
				Updates(map[string]any{"username": username, "email": email}).Error; err != nil {
				return err
			}
		}
		if stored != profile.Image {
			if err := tx.Model(&models.Profile{}).Where("id = ?", profile.ID).
				Update("image", stored).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, duplicateIdentityError(err)
		}
		return nil, err
	}
	actor.Username = username
	actor.Email = email
	profile.Image = stored
	return &profile, nil
}

// ProfileFor returns the actor's profile for display.
func (s *AccountService) ProfileFor(actor *models.User) (*models.Profile, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	var profile models.Profile
	if err := s.db.Where("user_id = ?", actor.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// storeAvatar normalizes the upload and writes it into the media dir
// under a fresh name. The previous stored file is left alone; the old
// reference is simply dropped.
func (s *AccountService) storeAvatar(r io.Reader) (string, error) {
	img, format, err := avatar.Normalize(r, s.media.MaxDim)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + avatar.Ext(format)
	if err := avatar.Save(img, filepath.Join(s.media.Dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// duplicateIdentityError maps a lost uniqueness race back to the same
// field message the pre-checks would have produced.
func duplicateIdentityError(err error) *ValidationError {
	switch uniqueConstraintField(err) {
	case "email":
		return newValidationError("email", "email is already in use")
	case "username":
		return newValidationError("username", "username is already taken")
	}
	return newValidationError("username", "username or email is already taken")
}
