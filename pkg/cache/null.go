package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Builds run with --no-cache, or without a usable
// cache directory, go through it and always rebuild the topology.
type NullCache struct{}

// NewNullCache returns a cache that misses on every lookup.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
