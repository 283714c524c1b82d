package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidQuery  = errors.New("invalid view query")
	ErrRefreshFailed = errors.New("snapshot refresh failed")
)
