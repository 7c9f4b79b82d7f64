// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Flag names shared by the client and server command lines.
const (
	FlagConfig         = "config"
	FlagAddress        = "address"
	FlagDSN            = "dsn"
	FlagToken          = "token"
	FlagRequestTimeout = "request-timeout"
	FlagHealthInterval = "health-interval"
	FlagSyncInterval   = "sync-interval"
	FlagLogFile        = "log-file"
	FlagLogLevel       = "log-level"
	FlagListen         = "listen"
	FlagTokenSignKey   = "token-sign-key"
)

// RegisterClientFlags defines the client flags on fs (usually the cobra root
// persistent flag set).
//
// Flags:
//
//	-c/--config         JSON or TOML config file path
//	-a/--address        backend base URL
//	-d/--dsn            local SQLite database path
//	--token             bearer token
//	--request-timeout   backend request timeout (e.g. "15s")
//	--health-interval   reachability probe period
//	--sync-interval     safety-net drain period
//	--log-file          client log file
//	--log-level         zerolog level name
func RegisterClientFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON or TOML config file path")
	fs.StringP(FlagAddress, "a", "", "Backend base URL")
	fs.StringP(FlagDSN, "d", "", "Local database path")
	fs.String(FlagToken, "", "Bearer token")
	fs.Duration(FlagRequestTimeout, 0, "Backend request timeout (e.g. 15s)")
	fs.Duration(FlagHealthInterval, 0, "Reachability probe period (e.g. 15s)")
	fs.Duration(FlagSyncInterval, 0, "Safety-net sync period (e.g. 1m)")
	fs.String(FlagLogFile, "", "Client log file")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
}

// RegisterServerFlags defines the reference backend flags on fs.
//
// Flags:
//
//	-c/--config         JSON or TOML config file path
//	-l/--listen         listen address host:port
//	--request-timeout   inbound request timeout
//	--token-sign-key    token signing key
func RegisterServerFlags(fs *pflag.FlagSet) {
	var listen NetAddress
	fs.StringP(FlagConfig, "c", "", "JSON or TOML config file path")
	fs.VarP(&listen, FlagListen, "l", "Listen address host:port")
	fs.Duration(FlagRequestTimeout, 0, "Inbound request timeout (e.g. 30s)")
	fs.String(FlagTokenSignKey, "", "Token signing key")
}

// ParseFlags converts the flags that were set on fs into a partial
// [StructuredConfig]. Flags that are not defined on fs or were not changed
// are left zero so they do not override other sources.
func ParseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}

	cfg.FilePath = flagString(fs, FlagConfig)
	cfg.Adapter.HTTPAddress = flagString(fs, FlagAddress)
	cfg.Storage.DB.DSN = flagString(fs, FlagDSN)
	cfg.App.AuthToken = flagString(fs, FlagToken)
	cfg.App.TokenSignKey = flagString(fs, FlagTokenSignKey)
	cfg.Log.Path = flagString(fs, FlagLogFile)
	cfg.Log.Level = flagString(fs, FlagLogLevel)
	cfg.Server.HTTPAddress = flagString(fs, FlagListen)

	var errs []error
	timeout, err := flagDuration(fs, FlagRequestTimeout)
	errs = append(errs, err)
	cfg.Adapter.RequestTimeout = timeout
	cfg.Server.RequestTimeout = timeout

	cfg.Workers.HealthInterval, err = flagDuration(fs, FlagHealthInterval)
	errs = append(errs, err)
	cfg.Workers.SyncInterval, err = flagDuration(fs, FlagSyncInterval)
	errs = append(errs, err)

	if err = errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	return cfg, nil
}

func flagString(fs *pflag.FlagSet, name string) string {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}

func flagDuration(fs *pflag.FlagSet, name string) (time.Duration, error) {
	raw := flagString(fs, name)
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// String returns a canonical host:port string, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost", empty, or an IP.
func (a *NetAddress) Set(s string) error {
	host, portStr, found := strings.Cut(s, ":")
	if !found || strings.Contains(portStr, ":") {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
