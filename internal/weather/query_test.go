package weather

import (
	"errors"
	"testing"
	"time"
)

func TestQueryLifecycle(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if st := q.Snapshot(); st.Status != StatusIdle {
		t.Fatalf("expected idle, got %s", st.Status)
	}

	seq := q.Begin("Paris")
	if st := q.Snapshot(); st.Status != StatusLoading {
		t.Fatalf("expected loading, got %s", st.Status)
	}

	if !q.Resolve("Paris", seq, 21, nil, now) {
		t.Fatal("expected result to be applied")
	}
	st := q.Snapshot()
	if st.Status != StatusSuccess || st.Data != 21 || !st.HasData {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestQueryErrorKeepsLastData(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	seq := q.Begin("Paris")
	q.Resolve("Paris", seq, 21, nil, now)

	boom := errors.New("boom")
	seq = q.Begin("Paris")
	q.Resolve("Paris", seq, 0, boom, now.Add(time.Minute))

	st := q.Snapshot()
	if st.Status != StatusError || !errors.Is(st.Err, boom) {
		t.Fatalf("expected error state, got %+v", st)
	}
	if st.Data != 21 || !st.HasData {
		t.Fatalf("expected last good data retained, got %+v", st)
	}
	if !st.UpdatedAt.Equal(now) {
		t.Errorf("expected UpdatedAt of the last success, got %v", st.UpdatedAt)
	}
}

func TestQueryDiscardsOutOfOrderResults(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	older := q.Begin("Paris")
	newer := q.Begin("Paris")

	if !q.Resolve("Paris", newer, 2, nil, now) {
		t.Fatal("expected newer result to be applied")
	}
	if q.Resolve("Paris", older, 1, nil, now) {
		t.Fatal("expected older result to be discarded")
	}
	if st := q.Snapshot(); st.Data != 2 || st.Status != StatusSuccess {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestQueryStaysLoadingWhileNewerFetchOutstanding(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	older := q.Begin("Paris")
	newer := q.Begin("Paris")

	q.Resolve("Paris", older, 1, nil, now)
	st := q.Snapshot()
	if st.Status != StatusLoading || st.Data != 1 {
		t.Fatalf("expected loading with interim data, got %+v", st)
	}

	q.Resolve("Paris", newer, 2, nil, now)
	if st := q.Snapshot(); st.Status != StatusSuccess || st.Data != 2 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestQueryKeyChangeResets(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	seq := q.Begin("Paris")
	q.Resolve("Paris", seq, 21, nil, now)

	inflight := q.Begin("Paris")
	next := q.Begin("London")

	st := q.Snapshot()
	if st.Key != "London" || st.HasData {
		t.Fatalf("expected fresh state for London, got %+v", st)
	}
	if q.Resolve("Paris", inflight, 99, nil, now) {
		t.Fatal("expected result for the old location to be discarded")
	}
	if !q.Resolve("London", next, 12, nil, now) {
		t.Fatal("expected London result to be applied")
	}
}

func TestQueryNeedsFetch(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if !q.NeedsFetch("Paris", now) {
		t.Fatal("idle query should need a fetch")
	}

	seq := q.Begin("Paris")
	if q.NeedsFetch("Paris", now) {
		t.Fatal("loading query should not need a fetch")
	}
	q.Resolve("Paris", seq, 1, nil, now)

	if q.NeedsFetch("Paris", now.Add(9*time.Minute)) {
		t.Fatal("fresh data should not need a fetch")
	}
	if !q.NeedsFetch("Paris", now.Add(10*time.Minute)) {
		t.Fatal("stale data should need a fetch")
	}
	if !q.NeedsFetch("London", now) {
		t.Fatal("another location should need a fetch")
	}
}

func TestQueryResetToSameKey(t *testing.T) {
	q := NewQuery[int](10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	seq := q.Begin("Paris")
	q.Resolve("Paris", seq, 1, nil, now)
	q.Reset("Paris")

	if st := q.Snapshot(); st.Status != StatusIdle || st.HasData {
		t.Fatalf("expected idle state after reset, got %+v", st)
	}
}
