package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrEmptyName       = errors.New("project name is required")
)
