package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateNickname   = errors.New("nickname already taken")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrStorage             = errors.New("storage failure")
	ErrInvalidImageData    = errors.New("invalid image data")
	ErrStaleRecord         = errors.New("record changed since job was submitted")
)
