// Package invoice provides domain contracts for invoice numbering.
package invoice

import (
	"context"
	"sync"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextFunc func(ctx context.Context, cfg Config, date time.Time) (string, error)

	mu   sync.Mutex
	seqs map[string]int64
}

// Next implements Generator. Without NextFunc it counts in memory per key,
// producing the same formatted numbers the real implementation would.
func (m *MockGenerator) Next(ctx context.Context, cfg Config, date time.Time) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, cfg, date)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	key := CounterKey(cfg, date)
	m.seqs[key]++
	return Format(cfg, date, m.seqs[key]), nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
