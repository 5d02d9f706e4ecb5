package storage

import (
	"context"
	"errors"

	"github.com/yndnr/ltrgate-go/pkg/quota"
)

// QuotaStore persists quota counters in a KVEngine.
type QuotaStore struct {
	kv KVEngine
}

var _ quota.Store = (*QuotaStore)(nil)

// NewQuotaStore wraps kv.
func NewQuotaStore(kv KVEngine) *QuotaStore {
	return &QuotaStore{kv: kv}
}

// Load implements quota.Store.
func (s *QuotaStore) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := s.kv.Get(ctx, []byte(key))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(v), true, nil
}

// Save implements quota.Store.
func (s *QuotaStore) Save(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, []byte(key), []byte(value))
}

// QuotaEntry is one stored counter.
type QuotaEntry struct {
	Key   string
	Token string
	Raw   string
}

// List returns every stored counter in key order.
func (s *QuotaStore) List(ctx context.Context) ([]QuotaEntry, error) {
	var entries []QuotaEntry
	err := s.kv.Scan(ctx, []byte(quota.KeyPrefix), func(k, v []byte) bool {
		key := string(k)
		tok, _ := quota.TokenFromKey(key)
		entries = append(entries, QuotaEntry{Key: key, Token: tok, Raw: string(v)})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
