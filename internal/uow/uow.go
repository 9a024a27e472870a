// Package uow serializes mutations of the engine state and ties each one to
// a durable snapshot flush. An operation is durable only after its flush
// completes; a failed flush rolls the in-memory change back, so the engine
// never reports success for an unpersisted mutation.
package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/railgo/internal/state"
)

var ErrPersistence = errors.New("persistence failure")

// AfterSave is a hook that runs after a successful snapshot flush.
type AfterSave func(ctx context.Context)

// SnapshotStore flushes a full state snapshot to durable storage.
type SnapshotStore interface {
	Save(ctx context.Context, d state.Data) error
}

type UoW struct {
	st    *state.State
	store SnapshotStore
}

func New(st *state.State, store SnapshotStore) *UoW {
	return &UoW{st: st, store: store}
}

// Do runs fn under the exclusive state lock, then flushes the mutated state.
// If fn fails, or the flush fails, the state is restored to the snapshot
// taken before fn ran. After-save hooks registered by fn run only once the
// flush has succeeded, outside the lock.
func (u *UoW) Do(ctx context.Context, fn func(st *state.State, after func(AfterSave)) error) error {
	const op = "uow.Do"

	var hooks []AfterSave

	err := u.st.Update(func() error {
		before := u.st.Snapshot()

		err := fn(u.st, func(h AfterSave) {
			hooks = append(hooks, h)
		})
		if err != nil {
			u.st.Restore(before)
			return err
		}

		if err := u.store.Save(ctx, u.st.Snapshot()); err != nil {
			u.st.Restore(before)
			return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
