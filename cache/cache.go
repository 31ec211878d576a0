// Package cache stores fetched transcripts keyed by video identifier.
// Entries older than the configured TTL are reported as absent; expiry is
// evaluated when an entry is read, not when it is written.
package cache

import (
	"context"
	"time"
)

const DefaultTTL = 24 * time.Hour

type Store interface {
	// Get returns the cached transcript for id. ok is false when no entry
	// exists or the entry has expired; callers cannot tell the two apart.
	Get(ctx context.Context, id string) (text string, ok bool, err error)

	// Put stores text for id, replacing any previous entry.
	Put(ctx context.Context, id, text string) error

	Close() error
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) expired(createdAt time.Time) bool {
	return o.Now().Sub(createdAt) >= o.TTL
}

// record is the persisted form shared by the key-value backends.
type record struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}
