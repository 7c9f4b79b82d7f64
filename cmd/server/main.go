// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/handler"
	handlerhttp "github.com/MKhiriev/go-fin-keeper/internal/handler/http"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/server"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fin-keeper-server",
		Short:         "In-memory reference backend for fin-keeper",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
			return serve(cmd)
		},
	}
	config.RegisterServerFlags(root.PersistentFlags())

	root.AddCommand(newTokenCommand())
	return root
}

func serve(cmd *cobra.Command) error {
	log := logger.NewLogger("fin-keeper-server")

	cfg, err := config.GetServerConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Msg("received configs")

	handlers, err := handler.NewHandlers(handlerhttp.NewLedger(), *cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv.RunServer()
	return nil
}

// newTokenCommand issues a bearer token signed with the server key, for
// pointing a client at a backend that requires authentication.
func newTokenCommand() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a client bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetServerConfig(cmd.Flags())
			if err != nil {
				return fmt.Errorf("error getting configs: %w", err)
			}

			token, err := utils.GenerateJWTToken(cfg.Auth.TokenIssuer, userID, cfg.Auth.TokenDuration, cfg.Auth.TokenSignKey)
			if err != nil {
				return fmt.Errorf("error issuing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.SignedString)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "user id carried in the token subject")

	return cmd
}
