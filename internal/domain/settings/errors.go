package settings

import "errors"

var (
	ErrNoFieldsToUpdate    = errors.New("no settings fields to update")
	ErrInvalidThreshold    = errors.New("bonus threshold must be a non-negative number")
	ErrInvalidBonusAmount  = errors.New("bonus amount must be a non-negative number")
	ErrUnsupportedFileType = errors.New("logo must be an image")
	ErrFileTooLarge        = errors.New("logo file exceeds the size limit")
)
