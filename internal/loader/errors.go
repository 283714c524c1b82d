package loader

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownSource = errors.New("unknown source")
	ErrNotFound      = errors.New("document not found")
	ErrFetchFailed   = errors.New("fetch failed")
	ErrDecodeFailed  = errors.New("decode failed")
	ErrTopicCatalog  = errors.New("topic catalog unavailable")
)
