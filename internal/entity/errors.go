package entity

import "errors"

var (
	// Input errors
	ErrDecode = errors.New("decode error")

	// Pipeline errors
	ErrImage    = errors.New("image error")
	ErrFontLoad = errors.New("font load error")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
