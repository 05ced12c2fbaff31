// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Main package for the piping-server binary.
package main

import (
	"os"

	"github.com/DataDog/piping-server/cmd/piping-server/command"
	"github.com/DataDog/piping-server/cmd/piping-server/subcommands/run"
	"github.com/DataDog/piping-server/cmd/piping-server/subcommands/version"
)

func main() {
	rootCmd := command.MakeCommand([]command.SubcommandFactory{
		run.Commands,
		version.Commands,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(-1)
	}
}
