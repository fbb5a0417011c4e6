package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration loading and validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrInvalidLogger  = goerr.New("invalid logger configuration")
	ErrNoDescriptors  = goerr.New("no descriptor source configured")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FieldKey      = "field"
	ValueKey      = "value"
)
