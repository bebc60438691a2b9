package store

import "errors"

// Sentinel errors. Services translate these into coded API errors.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	ErrBookNotFound     = errors.New("book not found")
	ErrBookExists       = errors.New("book already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrUserNotFound     = errors.New("user not found")
)
