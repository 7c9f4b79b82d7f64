// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-fin-keeper/internal/client"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// newRootCommand builds the fin-keeper command tree. Client flags are
// persistent so every subcommand accepts them.
func newRootCommand(build models.AppBuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "fin-keeper",
		Short:         "Offline-first personal finance client",
		Long:          "fin-keeper keeps working while the backend is unreachable and replays pending writes once it is back.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterClientFlags(root.PersistentFlags())

	root.AddCommand(
		newVersionCommand(build),
		newRunCommand(),
		newStatusCommand(),
		newSyncCommand(),
		newTxCommand(),
		newCategoriesCommand(),
		newQueueCommand(),
	)

	return root
}

type appRunE func(cmd *cobra.Command, args []string, app *client.App) error

// withApp loads the client configuration from the merged flag set, opens
// the App for the duration of one command and closes it afterwards.
func withApp(fn appRunE) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.GetClientConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.NewClientLogger("fin-keeper", cfg.Log)
		log.Debug().Str("command", cmd.CommandPath()).Msg("command started")

		app, err := client.NewApp(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("init client app: %w", err)
		}
		defer func() {
			if closeErr := app.Close(); closeErr != nil {
				log.Err(closeErr).Msg("error closing client app")
			}
		}()

		return fn(cmd, args, app)
	}
}
