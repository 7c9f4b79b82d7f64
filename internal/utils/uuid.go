// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered UUIDv7 strings, used as idempotency
// keys of queued writes and as trace ids.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// TempIDGenerator produces temp ids for records created offline. Ids are
// derived from the clock and are strictly increasing within a process even
// when the clock stalls or goes backwards.
type TempIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewTempIDGenerator() *TempIDGenerator {
	return &TempIDGenerator{now: time.Now}
}

func (g *TempIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixNano()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n

	return "tmp-" + strconv.FormatInt(n, 10)
}
