// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConnectivityState is the backend reachability as seen by the monitor.
type ConnectivityState struct {
	Reachable           bool          `json:"reachable"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	CheckInterval       time.Duration `json:"check_interval"`
	LastCheckedAt       time.Time     `json:"last_checked_at"`
}
