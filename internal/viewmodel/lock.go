// internal/viewmodel/lock.go
package viewmodel

import (
	"sync"
)

// LockTable is the per-entity-id mutation guard. Only one lock may be
// held per id at a time; acquisition attempts on a held id fail
// immediately instead of queueing. Default state for every id is
// unlocked.
type LockTable struct {
	mtx  sync.Mutex
	held map[string]bool
}

func NewLockTable() *LockTable {
	return &LockTable{held: make(map[string]bool)}
}

// TryAcquire takes the lock for id, reporting false when it is
// already held.
func (t *LockTable) TryAcquire(id string) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.held[id] {
		return false
	}

	t.held[id] = true
	return true
}

// Release frees the lock for id. Releasing an unheld id is a no-op so
// a deferred release is always safe.
func (t *LockTable) Release(id string) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	delete(t.held, id)
}

// IsLocked reports whether a mutation for id is outstanding. The UI
// uses this projection to disable further triggers for that id.
func (t *LockTable) IsLocked(id string) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.held[id]
}

// Busy reports whether any lock is held. Cart-wide operations require
// this to be false.
func (t *LockTable) Busy() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return len(t.held) > 0
}
