// Package memoryengine provides an in-process ledger engine.
//
// Movements are kept in a slice guarded by a RWMutex and get a gapless sequence number on append.
// It is used by the in-memory circulation store and by tests.
package memoryengine

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

// Ledger is an append-only in-memory ledger.
type Ledger struct {
	mu        sync.RWMutex
	movements ledger.StorableMovements
	logger    ledger.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger for the Ledger.
func WithLogger(logger ledger.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// NewLedger creates an empty Ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Append assigns sequence numbers and stores the movements atomically.
func (l *Ledger) Append(ctx context.Context, movement ledger.StorableMovement, additionalMovements ...ledger.StorableMovement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	all := append(ledger.StorableMovements{movement}, additionalMovements...)

	l.mu.Lock()
	defer l.mu.Unlock()

	next := uint(len(l.movements))
	for _, m := range all {
		next++
		m.SequenceNumber = next
		m.MetadataJSON = slices.Clone(m.MetadataJSON)
		l.movements = append(l.movements, m)
	}

	if l.logger != nil {
		l.logger.Info("ledger operation: movements appended", "movement_count", len(all))
	}

	return nil
}

// Query returns the matching movements in append order and the highest sequence number among them.
func (l *Ledger) Query(ctx context.Context, filter ledger.Filter) (ledger.StorableMovements, ledger.MaxSequenceNumberUint, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(ledger.StorableMovements, 0)
	maxSequenceNumber := ledger.MaxSequenceNumberUint(0)

	for _, m := range l.movements {
		if !filter.Matches(m) {
			continue
		}

		result = append(result, m)
		maxSequenceNumber = m.SequenceNumber
	}

	return result, maxSequenceNumber, nil
}

// Len returns the number of stored movements.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.movements)
}

var _ ledger.Store = (*Ledger)(nil)
