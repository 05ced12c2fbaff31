// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log exposes the process-wide leveled logger. It wraps a seelog
// backend so callers never hold a logger instance; before SetupLogger is
// called every function is a no-op.
package log

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

var (
	mu     sync.RWMutex
	logger seelog.LoggerInterface
)

const seelogConfigTemplate = `<seelog minlevel="%s">
  <outputs formatid="common">
    <console/>
  </outputs>
  <formats>
    <format id="common" format="%%Date(2006-01-02 15:04:05 MST) | %%LEVEL | %%Msg%%n"/>
  </formats>
</seelog>`

// SetupLogger builds the process logger at the given level. Unknown levels
// fall back to "info".
func SetupLogger(level string) error {
	seelogLevel := strings.ToLower(level)
	switch seelogLevel {
	case "trace", "debug", "info", "warn", "error", "critical", "off":
	default:
		seelogLevel = "info"
	}

	l, err := seelog.LoggerFromConfigAsString(fmt.Sprintf(seelogConfigTemplate, seelogLevel))
	if err != nil {
		return err
	}
	l.SetAdditionalStackDepth(2) //nolint:errcheck

	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		logger.Flush()
	}
	logger = l
	return nil
}

// ChangeLogLevel rebuilds the logger at a new level.
func ChangeLogLevel(level string) error {
	return SetupLogger(level)
}

// Tracef formats message according to format specifier and logs it with trace level.
func Tracef(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Tracef(format, params...)
	}
}

// Debugf formats message according to format specifier and logs it with debug level.
func Debugf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Debugf(format, params...)
	}
}

// Infof formats message according to format specifier and logs it with info level.
func Infof(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Infof(format, params...)
	}
}

// Warnf formats message according to format specifier and logs it with warn level.
func Warnf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Warnf(format, params...) //nolint:errcheck
	}
}

// Errorf formats message according to format specifier and logs it with error level.
func Errorf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Errorf(format, params...) //nolint:errcheck
	}
}

// Flush flushes the underlying logger.
func Flush() {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Flush()
	}
}
