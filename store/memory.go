// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package store

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemory returns a Store that keeps records in process memory.
func NewMemory() Store {
	return &memoryStore{records: make(map[string]*Record)}
}

// cloneRecord copies rec deeply enough that neither copy can change the other.  A FrequencyTable cannot be
// modified once built, so it is shared.
func cloneRecord(rec *Record) *Record {
	out := *rec
	out.Payload.Packed = append([]byte(nil), rec.Payload.Packed...)
	return &out
}

func (ms *memoryStore) Put(ctx context.Context, rec *Record) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, already := ms.records[rec.ID]; already {
		return nil
	}
	ms.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (ms *memoryStore) Get(ctx context.Context, id string) (*Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	rec, ok := ms.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (ms *memoryStore) List(ctx context.Context) ([]*Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]*Record, 0, len(ms.records))
	for _, rec := range ms.records {
		out = append(out, cloneRecord(rec))
	}
	sortRecords(out)
	return out, nil
}

func (ms *memoryStore) Close() {}

func sortRecords(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
