// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package command implements the top-level `piping-server` binary command.
package command

import (
	"github.com/spf13/cobra"
)

// GlobalParams contains the values of the top-level flags, available to
// every subcommand.
type GlobalParams struct {
	// ConfFilePath holds the path to the optional configuration file.
	ConfFilePath string
}

// SubcommandFactory builds the subcommands of one package, given the
// top-level flag values.
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level cobra command for this binary.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	cmd := &cobra.Command{
		Use:          "piping-server [command]",
		Short:        "Streaming data transfer server over HTTP",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the configuration file")

	for _, sf := range subcommandFactories {
		for _, subcmd := range sf(&globalParams) {
			cmd.AddCommand(subcmd)
		}
	}

	return cmd
}
