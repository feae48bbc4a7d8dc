/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	base    *zap.Logger
	loggers = make(map[string]*Logger)
)

var logLevelMap = map[Level]zapcore.Level{
	Debug:   zap.DebugLevel,
	Info:    zap.InfoLevel,
	Warning: zap.WarnLevel,
	Error:   zap.ErrorLevel,
}

// Logger is a named sugared zap logger.
// All loggers follow the latest configuration set by SetupWithConfig,
// including loggers in use by running goroutines.
type Logger struct {
	name  string
	sugar atomic.Pointer[zap.SugaredLogger]
}

func init() {
	c := DefaultConfig
	SetupWithConfig(&c)
}

// SetupWithConfig replaces the underlying logger of every named logger.
func SetupWithConfig(config *Config) {
	if config == nil {
		c := DefaultConfig
		config = &c
	}
	l := zap.Must(createLogger(config))

	mu.Lock()
	defer mu.Unlock()
	base = l
	for _, logger := range loggers {
		logger.sugar.Store(base.Named(logger.name).Sugar())
	}
}

func createLogger(config *Config) (*zap.Logger, error) {
	if !config.Enabled {
		return zap.NewNop(), nil
	}

	var c zap.Config
	if config.Development {
		c = zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		c = zap.NewProductionConfig()
	}
	if level, ok := logLevelMap[strings.ToUpper(config.Level)]; ok {
		c.Level = zap.NewAtomicLevelAt(level)
	}
	if config.Output != "" {
		c.OutputPaths = []string{config.Output}
		c.ErrorOutputPaths = []string{config.Output}
		// Colors are only useful on a terminal.
		c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	c.DisableCaller = !config.Caller
	// The Logger methods add a frame on top of the sugared logger.
	return c.Build(zap.AddCallerSkip(1))
}

// New returns the logger of the given name, creating it if needed.
func New(name string) *Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[name]; ok {
		return l
	}
	l := &Logger{name: name}
	l.sugar.Store(base.Named(name).Sugar())
	loggers[name] = l
	return l
}

// ErrorStackTrace logs an error along with its stack trace.
func (l *Logger) ErrorStackTrace(err error) {
	if err == nil {
		return
	}
	l.sugar.Load().WithOptions(zap.AddStacktrace(zap.ErrorLevel)).Error(fmt.Sprintf("%+v", err))
}

// Debug logs at debug level.
func (l *Logger) Debug(args ...any) { l.sugar.Load().Debug(args...) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(template string, args ...any) { l.sugar.Load().Debugf(template, args...) }

// Info logs at info level.
func (l *Logger) Info(args ...any) { l.sugar.Load().Info(args...) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(template string, args ...any) { l.sugar.Load().Infof(template, args...) }

// Warn logs at warning level.
func (l *Logger) Warn(args ...any) { l.sugar.Load().Warn(args...) }

// Warnf logs a formatted message at warning level.
func (l *Logger) Warnf(template string, args ...any) { l.sugar.Load().Warnf(template, args...) }

// Error logs at error level.
func (l *Logger) Error(args ...any) { l.sugar.Load().Error(args...) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(template string, args ...any) { l.sugar.Load().Errorf(template, args...) }
