package common

import "errors"

var (
	// ErrLoggerRequired is returned when a command is built without a logger.
	ErrLoggerRequired = errors.New("logger is required")

	// ErrConfigRequired is returned when a command is built without configuration.
	ErrConfigRequired = errors.New("config is required")
)
