// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package run implements 'piping-server run'.
package run

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/piping-server/cmd/piping-server/command"
	"github.com/DataDog/piping-server/pkg/api/server"
	"github.com/DataDog/piping-server/pkg/config"
	"github.com/DataDog/piping-server/pkg/relay"
	"github.com/DataDog/piping-server/pkg/util/log"
)

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 5 * time.Second
)

type cliParams struct {
	*command.GlobalParams

	// addr overrides server.address when non-empty.
	addr string
}

// Commands returns a slice of subcommands for the 'piping-server' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{GlobalParams: globalParams}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the piping server",
		Long:  `Runs the piping server in the foreground`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(cliParams)
		},
	}
	cmd.Flags().StringVarP(&cliParams.addr, "addr", "a", "", "listen address, overrides server.address")
	return []*cobra.Command{cmd}
}

func run(cliParams *cliParams) error {
	if err := config.Load(cliParams.ConfFilePath); err != nil {
		return err
	}
	if cliParams.addr != "" {
		config.Piping.Set("server.address", cliParams.addr)
	}
	if err := log.SetupLogger(config.Piping.GetString("log_level")); err != nil {
		return err
	}
	defer log.Flush()

	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() http.Handler { return relay.NewHandler() }),
		fx.Provide(func(handler http.Handler) *server.Server {
			return server.NewServer(
				config.Piping.GetString("server.address"),
				config.Piping.GetString("server.telemetry_address"),
				handler,
			)
		}),
		fx.Invoke(func(lc fx.Lifecycle, srv *server.Server) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error { return srv.Start() },
				OnStop:  func(ctx context.Context) error { return srv.Stop(ctx) },
			})
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), startTimeout)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stopCh
	log.Infof("received signal %q, shutting down", sig)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	return app.Stop(stopCtx)
}
