package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/pkg/removal"
)

// Remover is the external transform service the queue drains into,
// one call at a time.
type Remover interface {
	Remove(ctx context.Context, image []byte, filename, apiKey string) (*removal.Result, error)
}

// Queue holds background-removal jobs in upload order and drives them
// through the provider strictly sequentially. Item state is guarded by the
// mutex; provider calls happen outside of it.
type Queue struct {
	mu       sync.Mutex
	items    []*entity.QueueItem
	activeID string
	running  bool
	remover  Remover
}

func New(remover Remover) *Queue {
	return &Queue{remover: remover}
}

// Enqueue appends uploads as pending items, preserving their order.
// Processing does not start here. The first item ever added becomes active.
func (q *Queue) Enqueue(uploads []entity.Upload, previews [][]byte) []entity.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := make([]entity.QueueItem, 0, len(uploads))
	for i, up := range uploads {
		item := &entity.QueueItem{
			ID:        uuid.New().String(),
			Filename:  up.Filename,
			Source:    up.Data,
			Status:    entity.StatusPending,
			CreatedAt: time.Now(),
		}
		if i < len(previews) {
			item.Preview = previews[i]
		}
		q.items = append(q.items, item)
		added = append(added, *item)
	}

	if q.activeID == "" && len(q.items) > 0 {
		q.activeID = q.items[0].ID
	}

	return added
}

// Remove drops the item and releases everything it owns. Removing the active
// item moves the active pointer to the new first item, or clears it.
// Removing an item mid-run is allowed: the run loop skips ids it can no
// longer find.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return entity.ErrItemNotFound
	}

	item := q.items[idx]
	item.Source = nil
	item.Preview = nil
	item.Result = nil

	q.items = append(q.items[:idx], q.items[idx+1:]...)

	if q.activeID == id {
		if len(q.items) > 0 {
			q.activeID = q.items[0].ID
		} else {
			q.activeID = ""
		}
	}

	return nil
}

func (q *Queue) SetActive(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOf(id) < 0 {
		return entity.ErrItemNotFound
	}
	q.activeID = id
	return nil
}

func (q *Queue) Active() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.activeID
}

// Items returns value copies in queue order.
func (q *Queue) Items() []entity.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]entity.QueueItem, len(q.items))
	for i, item := range q.items {
		out[i] = *item
	}
	return out
}

func (q *Queue) Item(id string) (entity.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return entity.QueueItem{}, entity.ErrItemNotFound
	}
	return *q.items[idx], nil
}

// Run drains the work set (pending and errored items, snapshotted now)
// through the provider one item at a time. A failed item is recorded and the
// run moves on; per-item status is the only failure signal. Done items are
// never reprocessed.
func (q *Queue) Run(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return entity.ErrMissingAPIKey
	}

	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return entity.ErrBatchRunning
	}
	if len(q.items) == 0 {
		q.mu.Unlock()
		return entity.ErrEmptyQueue
	}

	workSet := make([]string, 0, len(q.items))
	for _, item := range q.items {
		if item.Status == entity.StatusPending || item.Status == entity.StatusError {
			workSet = append(workSet, item.ID)
		}
	}
	if len(workSet) == 0 {
		q.mu.Unlock()
		return entity.ErrNoEligibleItems
	}

	q.running = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()

	log := logrus.WithField("work_set", len(workSet))
	log.Info("batch run started")

	for _, id := range workSet {
		if ctx.Err() != nil {
			log.Warn("batch run interrupted, remaining items untouched")
			return nil
		}

		source, filename, ok := q.markProcessing(id)
		if !ok {
			continue // removed since the snapshot
		}

		result, err := q.remover.Remove(ctx, source, filename, apiKey)
		if err != nil {
			q.markError(id, err)
			continue
		}
		q.markDone(id, result)
	}

	log.Info("batch run finished")
	return nil
}

func (q *Queue) markProcessing(id string) (source []byte, filename string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return nil, "", false
	}
	item := q.items[idx]
	item.Status = entity.StatusProcessing
	return item.Source, item.Filename, true
}

func (q *Queue) markDone(id string, result *removal.Result) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return // removed while the call was in flight
	}
	item := q.items[idx]
	item.Status = entity.StatusDone
	item.Result = result.Image
	item.ErrorMessage = ""
	item.ErrorCode = ""
	item.Credits = result.Credits
}

func (q *Queue) markError(id string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return
	}
	item := q.items[idx]
	item.Status = entity.StatusError
	item.Result = nil
	item.ErrorMessage = err.Error()
	item.ErrorCode = ""

	if provErr, ok := err.(*removal.ProviderError); ok {
		item.ErrorMessage = provErr.Message
		item.ErrorCode = provErr.Code
		item.Credits = provErr.Credits
	}

	logrus.WithFields(logrus.Fields{
		"item":  id,
		"error": item.ErrorMessage,
	}).Warn("queue item failed")
}

func (q *Queue) indexOf(id string) int {
	for i, item := range q.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
