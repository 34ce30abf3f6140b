package queue

import (
	"context"
	"testing"

	"github.com/okian/co2atlas/internal/domain/model"
)

func job(id string, index int) Job {
	return Job{
		ID:      id,
		Index:   index,
		Ctx:     context.Background(),
		Request: model.ForecastRequest{SeriesQuery: model.SeriesQuery{Code: "USA", Metric: "co2"}, Method: "linear"},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("job1", 0)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue()
	if got.ID != "job1" || got.Request.Code != "USA" {
		t.Errorf("unexpected job %+v", got)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("job1", 0)) || !q.Enqueue(ctx, job("job2", 1)) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("job3", 2)) {
		t.Error("expected enqueue to fail when full")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	if !q.Enqueue(ctx, job("job1", 0)) {
		t.Fatal("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, job("job2", 1)) {
		t.Error("expected enqueue on closed queue to fail")
	}

	// pending jobs drain before the channel reports closed
	if j, ok := <-q.Dequeue(); !ok || j.ID != "job1" {
		t.Errorf("expected pending job1, got %+v ok=%v", j, ok)
	}
	if _, ok := <-q.Dequeue(); ok {
		t.Error("expected closed channel")
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a free slot still wins the select, so fill it first
	_ = q.Enqueue(context.Background(), job("job1", 0))
	if q.Enqueue(ctx, job("job2", 1)) {
		t.Error("expected enqueue to fail")
	}
}
