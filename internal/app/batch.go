package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/co2atlas/internal/adapters/mq/queue"
	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/pkg/metrics"
)

// BatchItem is the outcome of one request of a batch, in request order.
type BatchItem struct {
	Index  int
	Result forecast.Result
	Err    error
}

// ForecastBatch fans the requests out over the worker pool and returns one
// item per request in input order. Cancelling ctx stops dispatch; requests
// that were not run carry ctx's error.
func (s *Service) ForecastBatch(ctx context.Context, reqs []model.ForecastRequest) ([]BatchItem, error) {
	s.mu.RLock()
	q, started, maxItems := s.batchQueue, s.started, s.batchMaxItems
	s.mu.RUnlock()

	if !started || q == nil {
		return nil, ErrNotStarted
	}
	if len(reqs) > maxItems {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), maxItems)
	}

	start := time.Now()
	defer func() {
		metrics.RecordBatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	items := make([]BatchItem, len(reqs))
	answered := make([]bool, len(reqs))
	reply := make(chan queue.Outcome, len(reqs))
	batchID := uuid.NewString()

	pending := 0
	for i, r := range reqs {
		items[i].Index = i
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			answered[i] = true
			metrics.RecordBatchJob("cancelled")
			continue
		}
		ok := q.Enqueue(ctx, queue.Job{
			ID:      fmt.Sprintf("%s/%d", batchID, i),
			Index:   i,
			Ctx:     ctx,
			Request: r,
			Reply:   reply,
		})
		if !ok {
			items[i].Err = ErrBatchUnavailable
			answered[i] = true
			continue
		}
		pending++
	}

	for pending > 0 {
		select {
		case out := <-reply:
			items[out.Index].Result = out.Result
			items[out.Index].Err = out.Err
			answered[out.Index] = true
			pending--
		case <-ctx.Done():
			for i := range items {
				if !answered[i] {
					items[i].Err = ctx.Err()
				}
			}
			return items, nil
		}
	}
	return items, nil
}
