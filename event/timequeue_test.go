package event

import (
	"testing"
	"time"
)

func TestTimeQueue_DrainsDueInExecutionOrder(t *testing.T) {
	q := newTimeQueue()
	base := time.Now()

	q.enqueue(Erase(keyEventA{N: 3}), base.Add(30*time.Millisecond))
	q.enqueue(Erase(keyEventA{N: 1}), base.Add(10*time.Millisecond))
	q.enqueue(Erase(keyEventA{N: 2}), base.Add(20*time.Millisecond))

	due, _, hasNext := q.drainDue(base.Add(50 * time.Millisecond))
	if hasNext {
		t.Error("hasNext true with nothing remaining")
	}
	if len(due) != 3 {
		t.Fatalf("drained %d events, want 3", len(due))
	}
	for i, want := range []int{1, 2, 3} {
		e, ok := Open[keyEventA](due[i].env)
		if !ok || e.N != want {
			t.Errorf("due[%d].N = %v, want %d", i, due[i].env.Value, want)
		}
	}
}

func TestTimeQueue_TiesKeepEnqueueOrder(t *testing.T) {
	q := newTimeQueue()
	at := time.Now()

	for i := 0; i < 5; i++ {
		q.enqueue(Erase(keyEventA{N: i}), at)
	}

	due, _, _ := q.drainDue(at)
	if len(due) != 5 {
		t.Fatalf("drained %d events, want 5", len(due))
	}
	for i := range due {
		e, _ := Open[keyEventA](due[i].env)
		if e.N != i {
			t.Errorf("due[%d].N = %d, want %d", i, e.N, i)
		}
	}
}

func TestTimeQueue_FutureEntriesStay(t *testing.T) {
	q := newTimeQueue()
	base := time.Now()
	future := base.Add(time.Hour)

	q.enqueue(Erase(keyEventA{N: 1}), base)
	q.enqueue(Erase(keyEventA{N: 2}), future)

	due, next, hasNext := q.drainDue(base)
	if len(due) != 1 {
		t.Fatalf("drained %d events, want 1", len(due))
	}
	if !hasNext {
		t.Fatal("hasNext false with a future entry queued")
	}
	if !next.Equal(future) {
		t.Errorf("next = %v, want %v", next, future)
	}
	if got := q.depth(); got != 1 {
		t.Errorf("depth = %d, want 1", got)
	}
}

func TestTimeQueue_WakeSignaledOnEnqueue(t *testing.T) {
	q := newTimeQueue()

	q.enqueue(Erase(keyEventA{}), time.Now())
	select {
	case <-q.wake:
	default:
		t.Error("enqueue left no wake signal")
	}

	// The signal coalesces; many enqueues leave at most one.
	for i := 0; i < 10; i++ {
		q.enqueue(Erase(keyEventA{}), time.Now())
	}
	<-q.wake
	select {
	case <-q.wake:
		t.Error("wake channel held more than one signal")
	default:
	}
}

func TestTimeQueue_CancelAll(t *testing.T) {
	q := newTimeQueue()
	base := time.Now()

	q.enqueue(Erase(keyEventA{}), base)
	// Move one entry into the heap so both stores are covered.
	q.drainDue(base.Add(-time.Hour))
	q.enqueue(Erase(keyEventA{}), base.Add(time.Hour))

	q.cancelAll()
	if got := q.depth(); got != 0 {
		t.Fatalf("depth after cancelAll = %d, want 0", got)
	}

	due, _, hasNext := q.drainDue(base.Add(2 * time.Hour))
	if len(due) != 0 || hasNext {
		t.Error("cancelled entries still drained")
	}
}

func TestTimeQueue_DepthCountsBothStores(t *testing.T) {
	q := newTimeQueue()
	base := time.Now()

	q.enqueue(Erase(keyEventA{}), base.Add(time.Hour))
	q.drainDue(base) // moves it into the heap
	q.enqueue(Erase(keyEventA{}), base.Add(time.Hour))

	if got := q.depth(); got != 2 {
		t.Errorf("depth = %d, want 2", got)
	}
}
