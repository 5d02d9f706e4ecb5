package storage

import (
	"bytes"
	"context"
	"sort"
	"sync/atomic"

	"github.com/yndnr/ltrgate-go/pkg/cmap"
)

// MemoryEngine is a KVEngine held in a sharded map. Contents are lost when
// the process exits.
type MemoryEngine struct {
	data   *cmap.Map[[]byte]
	closed atomic.Bool
}

// NewMemoryEngine creates an empty MemoryEngine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{data: cmap.New[[]byte]()}
}

// Get retrieves a copy of the value for key.
func (m *MemoryEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	v, ok := m.data.Get(string(key))
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

// Set stores a copy of value.
func (m *MemoryEngine) Set(ctx context.Context, key, value []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.data.Set(string(key), bytes.Clone(value))
	return nil
}

// Delete removes a key.
func (m *MemoryEngine) Delete(ctx context.Context, key []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.data.Delete(string(key))
	return nil
}

// Scan visits keys with prefix in ascending order.
func (m *MemoryEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if m.closed.Load() {
		return ErrClosed
	}

	type kv struct {
		key   string
		value []byte
	}
	var matches []kv
	p := string(prefix)
	m.data.Range(func(k string, v []byte) bool {
		if len(k) >= len(p) && k[:len(p)] == p {
			matches = append(matches, kv{key: k, value: bytes.Clone(v)})
		}
		return true
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].key < matches[j].key })

	for _, e := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn([]byte(e.key), e.value) {
			break
		}
	}
	return nil
}

// Stats returns the key count.
func (m *MemoryEngine) Stats(ctx context.Context) (*KVStats, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return &KVStats{
		Engine:    EngineMemory,
		TotalKeys: uint64(m.data.Len()),
	}, nil
}

// Close drops all data.
func (m *MemoryEngine) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.data.Clear()
	return nil
}
