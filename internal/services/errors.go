package services

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	// ErrPasswordNotSet means the account was invited but has not accepted
	// the invite (no password on record yet).
	ErrPasswordNotSet = errors.New("password not set for this account")

	ErrProfileNotFound     = errors.New("profile not found")
	ErrScholarshipNotFound = errors.New("scholarship not found")

	ErrInvalidToken = errors.New("invalid or expired token")
)
