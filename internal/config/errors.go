package config

import "fmt"

// ConfigError is the single error kind returned for every user-correctable
// configuration failure: missing required keys, type coercion failures,
// malformed config files, and key-bundle read or decode failures.
//
// It optionally wraps an underlying cause (file I/O, TOML parse, key
// decode), reachable through errors.Unwrap / errors.Is / errors.As.
type ConfigError struct {
	reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return e.reason + ": " + e.cause.Error()
	}
	return e.reason
}

func (e *ConfigError) Unwrap() error { return e.cause }

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{reason: fmt.Sprintf(format, args...)}
}

func wrapConfigError(cause error, format string, args ...any) *ConfigError {
	return &ConfigError{reason: fmt.Sprintf(format, args...), cause: cause}
}
