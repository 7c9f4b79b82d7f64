// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ServerAuth holds token settings of the reference backend.
type ServerAuth struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ServerConfig is the reference backend view of [StructuredConfig].
type ServerConfig struct {
	Server Server
	Auth   ServerAuth
}

// GetServerConfig builds and validates the reference backend configuration.
func GetServerConfig(fs *pflag.FlagSet) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		Server: cfg.Server,
		Auth: ServerAuth{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
	}
	return serverCfg, serverCfg.validate()
}
