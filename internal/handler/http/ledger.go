// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-fin-keeper/internal/validators"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// Ledger is the in-memory state of the reference backend. All collections
// draw ids from one counter, so ids are unique across resources.
type Ledger struct {
	nextID    atomic.Int64
	validator validators.Validator

	Transactions *ledgerCollection[models.Transaction, *models.Transaction]
	Categories   *ledgerCollection[models.Category, *models.Category]
	Sources      *ledgerCollection[models.Source, *models.Source]
	Targets      *ledgerCollection[models.Target, *models.Target]
}

// LedgerOption configures a [Ledger].
type LedgerOption func(*Ledger)

// WithNextID sets the id handed out to the next created record.
func WithNextID(id int64) LedgerOption {
	return func(l *Ledger) {
		l.nextID.Store(id - 1)
	}
}

// WithValidator replaces the default record validator.
func WithValidator(v validators.Validator) LedgerOption {
	return func(l *Ledger) {
		l.validator = v
	}
}

// NewLedger creates an empty ledger. Ids start at 1 unless overridden.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{validator: validators.NewRecordValidator()}
	for _, opt := range opts {
		opt(l)
	}

	ids := func() int64 { return l.nextID.Add(1) }
	validate := func(rec any) error {
		if err := l.validator.Validate(context.Background(), rec); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		return nil
	}

	l.Transactions = newLedgerCollection[models.Transaction](models.ResourceTransaction, ids, true, validate)
	l.Categories = newLedgerCollection[models.Category](models.ResourceCategory, ids, false, validate)
	l.Sources = newLedgerCollection[models.Source](models.ResourceSource, ids, false, validate)
	l.Targets = newLedgerCollection[models.Target](models.ResourceTarget, ids, false, validate)

	return l
}

// categoryReferences counts the records pointing at category id.
func (l *Ledger) categoryReferences(id int64) map[string]int {
	refs := map[string]int{}
	if n := l.Transactions.count(func(t models.Transaction) bool { return t.CategoryID == id }); n > 0 {
		refs[models.ResourceTransaction.Collection()] = n
	}
	if n := l.Targets.count(func(t models.Target) bool { return t.CategoryID == id }); n > 0 {
		refs[models.ResourceTarget.Collection()] = n
	}
	return refs
}

// sourceReferences counts the transactions booked against source id.
func (l *Ledger) sourceReferences(id int64) map[string]int {
	refs := map[string]int{}
	if n := l.Transactions.count(func(t models.Transaction) bool { return t.SourceID == id }); n > 0 {
		refs[models.ResourceTransaction.Collection()] = n
	}
	return refs
}

// ledgerCollection stores the confirmed records of one resource.
type ledgerCollection[T any, PT models.RecordPtr[T]] struct {
	mu      sync.RWMutex
	records map[int64]T

	resource   models.ResourceType
	ids        func() int64
	descending bool
	validate   func(any) error
}

func newLedgerCollection[T any, PT models.RecordPtr[T]](
	resource models.ResourceType,
	ids func() int64,
	descending bool,
	validate func(any) error,
) *ledgerCollection[T, PT] {
	return &ledgerCollection[T, PT]{
		records:    make(map[int64]T),
		resource:   resource,
		ids:        ids,
		descending: descending,
		validate:   validate,
	}
}

// list returns the page [offset, offset+limit) of the records accepted by
// match, ordered like the client orders them, and the total match count.
func (c *ledgerCollection[T, PT]) list(match func(T) bool, limit, offset int) ([]T, int) {
	c.mu.RLock()
	all := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		if match == nil || match(rec) {
			all = append(all, rec)
		}
	}
	c.mu.RUnlock()

	slices.SortFunc(all, func(a, b T) int {
		ka, kb := PT(&a).SortKey(), PT(&b).SortKey()
		if r := strings.Compare(ka, kb); r != 0 {
			if c.descending {
				return -r
			}
			return r
		}
		return cmp.Compare(PT(&a).Meta().ID, PT(&b).Meta().ID)
	})

	total := len(all)
	if offset >= total {
		return []T{}, total
	}
	end := min(offset+limit, total)
	return all[offset:end], total
}

// all returns every record accepted by match in no particular order.
func (c *ledgerCollection[T, PT]) all(match func(T) bool) []T {
	items, _ := c.list(match, int(^uint(0)>>1), 0)
	return items
}

func (c *ledgerCollection[T, PT]) get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.records[id]
	if !ok {
		var zero T
		return zero, ErrRecordNotFound
	}
	return rec, nil
}

func (c *ledgerCollection[T, PT]) create(rec T) (T, error) {
	*PT(&rec).Meta() = models.RecordMeta{}
	if err := c.validate(rec); err != nil {
		return rec, err
	}

	PT(&rec).Meta().ID = c.ids()

	c.mu.Lock()
	c.records[PT(&rec).Meta().ID] = rec
	c.mu.Unlock()

	return rec, nil
}

func (c *ledgerCollection[T, PT]) update(id int64, rec T) (T, error) {
	*PT(&rec).Meta() = models.RecordMeta{ID: id}
	if err := c.validate(rec); err != nil {
		return rec, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[id]; !ok {
		return rec, ErrRecordNotFound
	}
	c.records[id] = rec
	return rec, nil
}

// delete removes record id. references, when set, runs under the write lock
// and a non-empty result refuses the delete with an [InUseError].
func (c *ledgerCollection[T, PT]) delete(id int64, references func(int64) map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[id]; !ok {
		return ErrRecordNotFound
	}
	if references != nil {
		if refs := references(id); len(refs) > 0 {
			return &InUseError{Resource: c.resource, References: refs}
		}
	}

	delete(c.records, id)
	return nil
}

func (c *ledgerCollection[T, PT]) count(pred func(T) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, rec := range c.records {
		if pred(rec) {
			n++
		}
	}
	return n
}
