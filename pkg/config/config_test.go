// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Mock(t)

	assert.Equal(t, ":8080", cfg.GetString("server.address"))
	assert.Equal(t, "", cfg.GetString("server.telemetry_address"))
	assert.Equal(t, "info", cfg.GetString("log_level"))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PIPING_SERVER_ADDRESS", ":9999")
	t.Setenv("PIPING_LOG_LEVEL", "debug")
	cfg := Mock(t)

	assert.Equal(t, ":9999", cfg.GetString("server.address"))
	assert.Equal(t, "debug", cfg.GetString("log_level"))
}

func TestMockIsolation(t *testing.T) {
	cfg := Mock(t)
	cfg.Set("server.address", ":1")
	assert.Equal(t, ":1", Piping.GetString("server.address"))

	t.Run("inner", func(t *testing.T) {
		inner := Mock(t)
		inner.Set("server.address", ":2")
		assert.Equal(t, ":2", Piping.GetString("server.address"))
	})

	assert.Equal(t, ":1", Piping.GetString("server.address"))
}

func TestLoadFile(t *testing.T) {
	Mock(t)

	path := filepath.Join(t.TempDir(), "piping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":7000\"\nlog_level: warn\n"), 0o644))

	require.NoError(t, Load(path))
	assert.Equal(t, ":7000", Piping.GetString("server.address"))
	assert.Equal(t, "warn", Piping.GetString("log_level"))
}

func TestLoadMissingFile(t *testing.T) {
	Mock(t)
	assert.Error(t, Load(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.NoError(t, Load(""))
}
