package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cinebook/model"
	"cinebook/session"
	"cinebook/validate"
)

func (c *Controller) RequestProfileUpdate(ctx context.Context, s session.Session, form validate.ProfileForm) (model.User, error) {
	if !s.Authenticated || s.User == nil {
		return model.User{}, ErrNotAuthenticated
	}
	if err := validate.Profile(form); err != nil {
		return model.User{}, err
	}

	update := model.ProfileUpdate{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
		Location: strings.TrimSpace(form.Location),
		Bio:      strings.TrimSpace(form.Bio),
	}
	user, err := c.api.UpdateUser(ctx, s.Token, s.User.Id, update)
	if err != nil {
		c.logger.Warn("profile update failed", "op", "update profile", "user", s.User.Id, "err", err)
		return model.User{}, &NetworkError{Op: "update profile", Err: err}
	}
	return user, nil
}

// ApplyUser replaces the signed-in user's profile with the result of a
// request made for userID. It does nothing if that user has since signed
// out. The role never changes.
func (c *Controller) ApplyUser(userID int64, user model.User) bool {
	if !c.signedInAs(userID) {
		c.logger.Debug("stale profile result dropped", "user", userID)
		return false
	}
	user.Id = userID
	c.session = c.session.WithUser(user)
	c.persist()
	return true
}

func (c *Controller) signedInAs(userID int64) bool {
	return c.session.Authenticated && c.session.User != nil && c.session.User.Id == userID
}

func (c *Controller) UpdateProfile(ctx context.Context, form validate.ProfileForm) (model.User, error) {
	s := c.Session()
	user, err := c.RequestProfileUpdate(ctx, s, form)
	if err != nil {
		return model.User{}, err
	}
	c.ApplyUser(s.User.Id, user)
	return *c.session.User, nil
}

// RequestImageUpload reads, checks and uploads a profile picture, returning
// the URL the platform stored it under.
func (c *Controller) RequestImageUpload(ctx context.Context, s session.Session, path string) (string, error) {
	if !s.Authenticated || s.User == nil {
		return "", ErrNotAuthenticated
	}
	path = strings.TrimSpace(path)
	data, err := readImage(path)
	if err != nil {
		return "", err
	}
	if err := validate.ProfileImage(data); err != nil {
		return "", err
	}

	url, err := c.api.UploadProfileImage(ctx, s.Token, s.User.Id, filepath.Base(path), data)
	if err != nil {
		c.logger.Warn("image upload failed", "op", "upload image", "user", s.User.Id, "err", err)
		return "", &NetworkError{Op: "upload image", Err: err}
	}
	return url, nil
}

// readImage reads at most one byte past MaxImageBytes so oversized files
// are rejected without loading them whole.
func readImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, validate.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// ApplyImage stores the uploaded picture URL on userID's profile, unless
// that user has signed out meanwhile.
func (c *Controller) ApplyImage(userID int64, url string) bool {
	if !c.signedInAs(userID) {
		return false
	}
	user := *c.session.User
	user.ProfileImageUrl = url
	return c.ApplyUser(userID, user)
}

func (c *Controller) UploadProfileImage(ctx context.Context, path string) (string, error) {
	s := c.Session()
	url, err := c.RequestImageUpload(ctx, s, path)
	if err != nil {
		return "", err
	}
	c.ApplyImage(s.User.Id, url)
	return url, nil
}

// RequestCity guesses a value for the profile's location field. It mutates
// nothing; the form decides whether to keep it.
func (c *Controller) RequestCity(ctx context.Context) (string, error) {
	if c.locator == nil {
		return "", ErrNoLocator
	}
	city, err := c.locator.DetectCity(ctx)
	if err != nil {
		return "", &NetworkError{Op: "detect location", Err: err}
	}
	c.logger.Debug("location detected", "source", city.Source)
	return city.String(), nil
}
