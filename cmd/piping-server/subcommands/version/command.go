// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version implements 'piping-server version'.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataDog/piping-server/cmd/piping-server/command"
	"github.com/DataDog/piping-server/pkg/version"
)

// Commands returns a slice of subcommands for the 'piping-server' command.
func Commands(_ *command.GlobalParams) []*cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if version.Commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "piping-server %s - Commit: %s\n", version.Version, version.Commit)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "piping-server %s\n", version.Version)
			}
			return nil
		},
	}
	return []*cobra.Command{cmd}
}
