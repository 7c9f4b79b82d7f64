// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "IP address with port", addr: NetAddress{Host: "127.0.0.1", Port: 9090}, expected: "127.0.0.1:9090"},
		{name: "only port no host", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    NetAddress
	}{
		{name: "localhost", input: "localhost:8080", want: NetAddress{Host: "localhost", Port: 8080}},
		{name: "ip", input: "127.0.0.1:9090", want: NetAddress{Host: "127.0.0.1", Port: 9090}},
		{name: "all interfaces", input: ":8080", want: NetAddress{Port: 8080}},
		{name: "no port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:abc", wantErr: true},
		{name: "zero port", input: "localhost:0", wantErr: true},
		{name: "hostname", input: "example.com:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestParseFlags_OnlyChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	RegisterClientFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--token", "a.b.c",
		"--request-timeout", "3s",
		"--health-interval", "30s",
		"--log-level", "info",
	}))

	cfg, err := ParseFlags(fs)
	require.NoError(t, err)

	assert.Equal(t, "a.b.c", cfg.App.AuthToken)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Workers.HealthInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Adapter.HTTPAddress)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Zero(t, cfg.Workers.SyncInterval)
}

func TestParseFlags_ServerListen(t *testing.T) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	RegisterServerFlags(fs)
	require.NoError(t, fs.Parse([]string{"-l", "127.0.0.1:9000", "--token-sign-key", "k"}))

	cfg, err := ParseFlags(fs)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, "k", cfg.App.TokenSignKey)
}

func TestParseFlags_RejectsBadListen(t *testing.T) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	RegisterServerFlags(fs)
	assert.Error(t, fs.Parse([]string{"-l", "nowhere"}))
}
