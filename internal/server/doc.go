// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the reference backend's HTTP server.
//
// It provides startup, signal handling and graceful shutdown on SIGTERM,
// SIGINT and SIGQUIT.
package server
