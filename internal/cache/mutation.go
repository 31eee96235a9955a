package cache

import (
	"context"
	"sync/atomic"
)

// Mutation wraps one write operation. On success it invalidates its declared
// key set; on failure the cache is left untouched. InFlight reports true from
// invocation until the success or failure callback has completed, which is
// what disables submit controls in the consuming UI.
type Mutation[In, Out any] struct {
	store       *Store
	run         func(context.Context, In) (Out, error)
	invalidates []Key
	pending     atomic.Int32
	// KeyFunc derives additional invalidation keys from the input, for
	// mutations whose affected entry is input-addressed.
	KeyFunc   func(In) []Key
	OnSuccess func(Out)
	OnError   func(error)
}

func NewMutation[In, Out any](store *Store, run func(context.Context, In) (Out, error), invalidates ...Key) *Mutation[In, Out] {
	return &Mutation[In, Out]{store: store, run: run, invalidates: invalidates}
}

func (m *Mutation[In, Out]) InFlight() bool {
	return m.pending.Load() > 0
}

func (m *Mutation[In, Out]) Do(ctx context.Context, input In) (Out, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)
	out, err := m.run(ctx, input)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return out, err
	}
	keys := m.invalidates
	if m.KeyFunc != nil {
		keys = append(m.KeyFunc(input), keys...)
	}
	for _, key := range keys {
		m.store.Invalidate(key)
	}
	if m.OnSuccess != nil {
		m.OnSuccess(out)
	}
	return out, nil
}
