package files

import "errors"

var (
	ErrNoFilename     = errors.New("no filename provided")
	ErrFileTooLarge   = errors.New("file too large")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)
