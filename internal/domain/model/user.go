package model

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("username exceeds maximum length of 64 characters")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a User with a bcrypt password hash.
func NewUser(username, email, password string) (*User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(username) < minUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
