// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// App wires local storage, the backend adapter and the offline sync engine
// into a single process lifecycle. The same App serves the long-running
// daemon and the one-shot command line operations.
package client
