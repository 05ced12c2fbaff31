// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"testing"

	"github.com/spf13/viper"
)

// Mock swaps the global configuration for a fresh instance for the duration
// of the test and returns it. Tests mutate the returned instance freely; the
// previous global is restored on cleanup.
func Mock(t *testing.T) *viper.Viper {
	old := Piping
	Piping = NewConfig()
	t.Cleanup(func() { Piping = old })
	return Piping
}
