package results

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns a process-local Store, selected with DB_DRIVER=memory.
func NewMemoryStore() Store {
	return &memoryStore{records: map[string]Record{}}
}

func (m *memoryStore) Put(_ context.Context, rec Record) (Record, error) {
	rec = stamp(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = clone(rec)
	return rec, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return clone(rec), nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Record, error) {
	opts = opts.normalized()
	m.mu.RLock()
	all := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if opts.VariantID != "" && r.Breakdown.VariantID != opts.VariantID {
			continue
		}
		all = append(all, clone(r))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if opts.Offset >= len(all) {
		return []Record{}, nil
	}
	all = all[opts.Offset:]
	if len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (m *memoryStore) MarkNotifyPending(_ context.Context, id string) error {
	return m.update(id, func(n *NotifyStatus) {
		n.State = NotifyPending
		n.Attempts++
	})
}

func (m *memoryStore) MarkNotifyOK(_ context.Context, id string) error {
	return m.update(id, func(n *NotifyStatus) {
		n.State = NotifyOK
		n.LastError = ""
	})
}

func (m *memoryStore) MarkNotifyFailed(_ context.Context, id, lastErr string) error {
	return m.update(id, func(n *NotifyStatus) {
		n.State = NotifyFailed
		n.LastError = lastErr
	})
}

func (m *memoryStore) update(id string, fn func(*NotifyStatus)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	fn(&rec.Notify)
	m.records[id] = rec
	return nil
}

// stamp fills in ID and CreatedAt.
func stamp(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = rec.CreatedAt.Truncate(time.Millisecond)
	return rec
}

func clone(rec Record) Record {
	if rec.Answers != nil {
		rec.Answers = append(rec.Answers[:0:0], rec.Answers...)
	}
	return rec
}
