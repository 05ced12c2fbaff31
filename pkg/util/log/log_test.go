// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBeforeSetupIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Debugf("nobody %s", "listening")
		Infof("nobody listening")
		Warnf("nobody listening")
		Errorf("nobody listening")
		Flush()
	})
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "critical", "off"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, SetupLogger(level))
		})
	}
}

func TestSetupLoggerUnknownLevelFallsBack(t *testing.T) {
	require.NoError(t, SetupLogger("chatty"))
	assert.NotPanics(t, func() {
		Infof("level fell back to info")
		Flush()
	})
}
