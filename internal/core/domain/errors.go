package domain

import "errors"

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUnknownRole     = errors.New("unknown role")

	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")

	ErrSongNotFound = errors.New("song not found")

	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrDuplicateEntry   = errors.New("song already in playlist")
	ErrEntryNotFound    = errors.New("song not in playlist")
)
