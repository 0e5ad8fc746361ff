// Package lrutable provides a bounded key-value table with least-recently-used eviction.
package lrutable

import (
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/usnistgov/portplan/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("lrutable")

// ErrMaxEntries indicates MaxEntries is not positive.
var ErrMaxEntries = errors.New("MaxEntries must be positive")

// Config contains Table configuration.
type Config struct {
	// Name is used in log entries.
	Name string `json:"name,omitempty"`

	// MaxEntries is the maximum number of entries.
	// Inserting beyond this bound evicts the least recently used entry.
	MaxEntries int `json:"maxEntries"`
}

// Table is a bounded key-value table.
// It is safe for concurrent use.
type Table[K comparable, V any] struct {
	cache   *lru.Cache
	name    string
	max     int
	nEvicts atomic.Uint64
}

// New creates a Table.
func New[K comparable, V any](cfg Config) (*Table[K, V], error) {
	if cfg.MaxEntries <= 0 {
		return nil, ErrMaxEntries
	}
	tbl := &Table[K, V]{
		name: cfg.Name,
		max:  cfg.MaxEntries,
	}
	cache, e := lru.NewWithEvict(cfg.MaxEntries, tbl.evicted)
	if e != nil {
		return nil, e
	}
	tbl.cache = cache
	return tbl, nil
}

func (tbl *Table[K, V]) evicted(key, _ any) {
	tbl.nEvicts.Add(1)
	logger.Debug("evicted",
		zap.String("table", tbl.name),
		zap.Any("key", key),
	)
}

// MaxEntries returns the maximum number of entries.
func (tbl *Table[K, V]) MaxEntries() int {
	return tbl.max
}

// Len returns the number of entries.
func (tbl *Table[K, V]) Len() int {
	return tbl.cache.Len()
}

// CountEvictions returns the number of entries evicted or removed so far.
func (tbl *Table[K, V]) CountEvictions() uint64 {
	return tbl.nEvicts.Load()
}

// Put inserts or replaces an entry and marks it most recently used.
// It returns true if another entry was evicted.
func (tbl *Table[K, V]) Put(key K, value V) (evicted bool) {
	return tbl.cache.Add(key, value)
}

// Get retrieves an entry and marks it most recently used.
func (tbl *Table[K, V]) Get(key K) (value V, ok bool) {
	v, ok := tbl.cache.Get(key)
	if !ok {
		return value, false
	}
	return v.(V), true
}

// Delete removes an entry.
func (tbl *Table[K, V]) Delete(key K) {
	tbl.cache.Remove(key)
}
