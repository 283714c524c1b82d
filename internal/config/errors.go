package config

import (
	"errors"
)

// Sentinel error kinds for this package, matchable with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("configuration load failed")
)
