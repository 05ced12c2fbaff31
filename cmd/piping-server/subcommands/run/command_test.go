// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/piping-server/cmd/piping-server/command"
)

func TestCommands(t *testing.T) {
	cmds := Commands(&command.GlobalParams{})
	require.Len(t, cmds, 1)

	cmd := cmds[0]
	assert.Equal(t, "run", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
}
