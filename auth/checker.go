package auth

import (
	"context"
	"errors"

	"portfolio/models"
)

var (
	ErrAccountDisabled    = errors.New("Your account has been blocked.")
	ErrInvalidCredentials = errors.New("Invalid credentials.")
)

// CheckPreAuth runs after the password check and before the session is
// written. Blocked accounts cannot log in, administrators included.
func CheckPreAuth(user *models.User) error {
	if user == nil || !user.Active {
		return ErrAccountDisabled
	}
	return nil
}

// Authenticate returns ErrInvalidCredentials for unknown emails and wrong
// passwords, and the CheckPreAuth error for blocked accounts
func Authenticate(ctx context.Context, store *models.Store, email, password string) (*models.User, error) {
	user, err := store.FindUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if err = CheckPreAuth(user); err != nil {
		return nil, err
	}
	return user, nil
}
