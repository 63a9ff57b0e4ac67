package layerenv

import (
	"errors"
	"fmt"
)

// ErrUsage is returned for an unknown command.
var ErrUsage = errors.New("layerenv: usage: layerenv (app|site)")

// MissingEnvironmentError is returned when neither a primary .env file nor the
// environment id variable is available.
type MissingEnvironmentError struct {
	Variable string // Name of the environment id variable
}

// Error returns the setup diagnostic naming the variable.
func (e *MissingEnvironmentError) Error() string {
	return fmt.Sprintf("Missing .env file or %s environment variable. Make sure the application is setup correctly.", e.Variable)
}

// ParseError reports dotenv text that could not be parsed.
type ParseError struct {
	Layer string // Layer name, or "assembly" for the concatenated text
	Err   error
}

// Error names the layer that failed to parse.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse dotenv layer %s: %v", e.Layer, e.Err)
}

// Unwrap returns the parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
