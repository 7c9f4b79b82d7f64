// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the reference finance backend: an in-memory
// [Ledger] served over the REST and server-sent events contract the client
// sync engine talks to.
//
// Routes are wired with chi. Cross-cutting concerns such as request tracing,
// access logging, authentication, response compression and Idempotency-Key
// replay are handled by middleware. [Handler.SetOutage] simulates an
// unreachable backend for end-to-end tests.
package http
