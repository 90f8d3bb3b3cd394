package repository

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrUserVideoNotFound is returned when a saved-video entry cannot be
	// found for the given user.
	ErrUserVideoNotFound = errors.New("saved video not found")

	// ErrDuplicateUserVideo is returned when the user already saved this
	// video.
	ErrDuplicateUserVideo = errors.New("video already saved")

	// ErrHistoryNotFound is returned when a search history entry cannot be
	// found.
	ErrHistoryNotFound = errors.New("search history entry not found")

	// ErrSessionNotFound is returned when a session token is unknown or
	// expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrBucketNotFound is returned when the archive bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound is returned when an archived artifact cannot be
	// found.
	ErrObjectNotFound = errors.New("object not found")
)
