package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUploadNotFound = errors.New("upload not found")
)
