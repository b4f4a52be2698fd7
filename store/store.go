// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package store keeps compressed payloads by ID.  Records are content-addressed: the ID is derived from the
digest of the serialized payload, so storing the same input twice yields the same ID.
*/
package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/blanu/huffpack/config"
	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/payload"
)

var log = logging.MustGetLogger("huffpack/store")

var ErrNotFound = errors.New("store: not found")

// Record is one stored payload and what is known about its origin.
type Record struct {
	ID           string
	Name         string
	OriginalSize int
	Payload      huffman.Payload
	CreatedAt    time.Time
}

// Store holds Records.  Implementations are safe for concurrent use.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Close()
}

// RecordID returns the ID for a serialized payload: the hex form of the first 16 octets of its digest.
func RecordID(blob []byte) string {
	sum := payload.Digest(blob)
	return hex.EncodeToString(sum[:16])
}

// NewRecord serializes p and returns a Record carrying its content-derived ID along with the serialized form.
func NewRecord(name string, originalSize int, p huffman.Payload) (*Record, []byte, error) {
	blob, err := payload.Marshal(p)
	if err != nil {
		return nil, nil, err
	}

	return &Record{
		ID:           RecordID(blob),
		Name:         name,
		OriginalSize: originalSize,
		Payload:      p,
		CreatedAt:    time.Now().UTC(),
	}, blob, nil
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		log.Infof("using in-memory store")
		return NewMemory(), nil
	case config.StorePostgres:
		log.Infof("using postgres store")
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("store: unknown kind %q", cfg.Store)
	}
}
