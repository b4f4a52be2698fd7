// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package service ties the codec to a payload store.  Every call compresses or decompresses independently, so a
CompressionService may be shared by concurrent requests.
*/
package service

import (
	"context"
	"errors"

	"github.com/op/go-logging"

	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/stats"
	"github.com/blanu/huffpack/store"
)

var log = logging.MustGetLogger("huffpack/service")

var ErrNameRequired = errors.New("service: name is required")

type CompressionService struct {
	store store.Store
}

func NewCompressionService(s store.Store) *CompressionService {
	return &CompressionService{store: s}
}

// Compress compresses data, stores the result under a content-derived ID and returns the stored record with
// its statistics.  If the same content was stored before, the earlier record is kept and returned.
func (svc *CompressionService) Compress(ctx context.Context, name string, data []byte) (*store.Record, stats.Stats, error) {
	if name == "" {
		return nil, stats.Stats{}, ErrNameRequired
	}

	p := huffman.Compress(data)
	rec, _, err := store.NewRecord(name, len(data), p)
	if err != nil {
		return nil, stats.Stats{}, err
	}
	if err := svc.store.Put(ctx, rec); err != nil {
		log.Errorf("storing %s: %v", rec.ID, err)
		return nil, stats.Stats{}, err
	}

	stored, err := svc.store.Get(ctx, rec.ID)
	if err != nil {
		log.Errorf("reading back %s: %v", rec.ID, err)
		return nil, stats.Stats{}, err
	}
	if stored.Name != name {
		log.Infof("%s (%q) already stored as %q", rec.ID, name, stored.Name)
	}

	st := stats.Measure(data, p)
	if p.Empty() {
		log.Infof("stored %s (%q): empty content", stored.ID, stored.Name)
	} else {
		log.Infof("stored %s (%q): %d -> %d bytes", stored.ID, stored.Name, st.OriginalBytes, st.PackedBytes)
	}
	return stored, st, nil
}

// Get returns the record stored under id.
func (svc *CompressionService) Get(ctx context.Context, id string) (*store.Record, error) {
	return svc.store.Get(ctx, id)
}

// List returns all stored records, oldest first.
func (svc *CompressionService) List(ctx context.Context) ([]*store.Record, error) {
	return svc.store.List(ctx)
}

// Decompress returns the original content of the record stored under id.
func (svc *CompressionService) Decompress(ctx context.Context, id string) ([]byte, error) {
	rec, err := svc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := huffman.Decompress(rec.Payload)
	if err != nil {
		log.Errorf("decompressing %s: %v", id, err)
		return nil, err
	}
	return out, nil
}
