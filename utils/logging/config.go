/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

// Level of the logger.
type Level = string

// Supported log levels.
const (
	Debug   Level = "DEBUG"
	Info    Level = "INFO"
	Warning Level = "WARNING"
	Error   Level = "ERROR"
)

// Config describes the logger parameters.
type Config struct {
	Enabled     bool   `mapstructure:"enabled"     yaml:"enabled"`
	Level       Level  `mapstructure:"level"       yaml:"level"`
	Caller      bool   `mapstructure:"caller"      yaml:"caller"`
	Development bool   `mapstructure:"development" yaml:"development"`
	// Output is a file path. Empty means stderr.
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig is applied at init.
var DefaultConfig = Config{
	Enabled:     true,
	Level:       Info,
	Caller:      false,
	Development: true,
}
