package weather

import (
	"sync"
	"time"
)

// Query tracks one independently refreshed piece of remote data.
//
// Every fetch is tagged with a sequence number from Begin. Resolve applies a
// result only if its sequence is newer than the last applied one, so a slow
// response can never overwrite a newer result. Changing the key (location)
// resets the query and orphans every in-flight fetch.
type Query[T any] struct {
	mu         sync.Mutex
	staleAfter time.Duration

	key        string
	issued     uint64
	applied    uint64
	resolvedAt time.Time
	state      QueryState[T]
}

// NewQuery creates an idle query whose data goes stale after staleAfter.
func NewQuery[T any](staleAfter time.Duration) *Query[T] {
	return &Query[T]{
		staleAfter: staleAfter,
		state:      QueryState[T]{Status: StatusIdle},
	}
}

// Begin moves the query to loading for key and returns the sequence number
// the caller must pass to Resolve.
func (q *Query[T]) Begin(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetLocked(key)
	q.issued++
	q.state.Status = StatusLoading
	return q.issued
}

// Resolve records the outcome of fetch seq. It reports whether the result was
// applied; results for an old key or older than the applied one are dropped.
func (q *Query[T]) Resolve(key string, seq uint64, data T, err error, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if key != q.key || seq <= q.applied {
		return false
	}
	q.applied = seq
	q.resolvedAt = now

	if err != nil {
		q.state.Err = err
		q.state.Status = StatusError
	} else {
		q.state.Data = data
		q.state.HasData = true
		q.state.Err = nil
		q.state.UpdatedAt = now
		q.state.Status = StatusSuccess
	}

	// A newer fetch is still outstanding.
	if q.applied < q.issued {
		q.state.Status = StatusLoading
	}
	return true
}

// accepts reports whether Resolve would currently apply seq for key.
func (q *Query[T]) accepts(key string, seq uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return key == q.key && seq > q.applied
}

// Snapshot returns the current state.
func (q *Query[T]) Snapshot() QueryState[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// NeedsFetch reports whether an observer of key should trigger a fetch: the
// query is idle, belongs to another key, or its last outcome (success or
// failure) is older than the staleness threshold.
func (q *Query[T]) NeedsFetch(key string, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if key != q.key {
		return true
	}
	switch q.state.Status {
	case StatusIdle:
		return true
	case StatusLoading:
		return false
	}
	return now.Sub(q.resolvedAt) >= q.staleAfter
}

// Reset returns the query to idle for key, discarding in-flight fetches.
func (q *Query[T]) Reset(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearLocked(key)
}

func (q *Query[T]) resetLocked(key string) {
	if key == q.key {
		return
	}
	q.clearLocked(key)
}

func (q *Query[T]) clearLocked(key string) {
	q.key = key
	q.applied = q.issued
	q.state = QueryState[T]{Key: key, Status: StatusIdle}
}
