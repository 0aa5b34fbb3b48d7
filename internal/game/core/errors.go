package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition     = errors.New("invalid position")
	ErrCategoryNotAllowed  = errors.New("system category not allowed on tile")
	ErrAsymmetricAdjacency = errors.New("adjacency is not symmetric")
	ErrMissingCenter       = errors.New("board has no center tile")
	ErrPlayerMismatch      = errors.New("home tiles do not match player set")
	ErrTileCountMismatch   = errors.New("tile count does not match layout")
	ErrInsufficientSystems = errors.New("not enough systems in catalog")
	ErrUnknownSystem       = errors.New("unknown system")
	ErrUnknownLayout       = errors.New("unknown layout")
	ErrMalformedData       = errors.New("malformed static data")
)

// ConfigurationError reports inconsistent static data: a layout table or the
// system catalog disagrees with itself. Generation must not be retried.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Op == "" {
		return "configuration error: " + e.Err.Error()
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError wraps sentinel with a formatted detail message.
func NewConfigurationError(op string, sentinel error, format string, args ...interface{}) error {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
	}
	return &ConfigurationError{Op: op, Err: err}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
