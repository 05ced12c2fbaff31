// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the runtime configuration of the piping server. The
// configuration is backed by viper: defaults, then an optional YAML file,
// then PIPING_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Piping is the global configuration instance.
var Piping = NewConfig()

// NewConfig builds a configuration instance with defaults and env binding
// applied.
func NewConfig() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.telemetry_address", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("piping")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional configuration file into the global instance.
// An empty path means file-less operation; a missing file at an explicit
// path is an error.
func Load(confFilePath string) error {
	if confFilePath == "" {
		return nil
	}
	Piping.SetConfigFile(confFilePath)
	if err := Piping.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", confFilePath, err)
	}
	return nil
}
