package config

import "errors"

// Configuration validation errors returned by AppConfig.Validate and SetMode.
var (
	// ErrConflictingModes is returned when both --prod and --example are given.
	ErrConflictingModes = errors.New("conflicting input modes: --prod and --example cannot be used together")

	ErrEmptyBaseURL      = errors.New("invalid admin base url: must not be empty")
	ErrInvalidYear       = errors.New("invalid expected year: must be positive")
	ErrInvalidTimeout    = errors.New("invalid wait timeout: must be positive")
	ErrInvalidGraceDelay = errors.New("invalid grace delay: must be non-negative")
	ErrInvalidMode       = errors.New("invalid input mode: must be auto, prod or example")
	ErrInvalidFormat     = errors.New("invalid output format: must be xlsx, markdown or json")
)
