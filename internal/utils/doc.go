// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers used across the client and
// the reference backend: typed context keys, JSON response writing, the
// resty HTTP client wrapper, JWT helpers and id generators.
package utils
