package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryEngine(t *testing.T) {
	engine := NewMemoryEngine()
	ctx := context.Background()

	value := []byte("5")
	if err := engine.Set(ctx, []byte("b"), value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, err := engine.Get(ctx, []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "5" {
		t.Errorf("Get = %q, want %q (stored value must be a copy)", got, "5")
	}

	_ = engine.Set(ctx, []byte("a"), []byte("1"))
	_ = engine.Set(ctx, []byte("c"), []byte("3"))
	_ = engine.Set(ctx, []byte("z:other"), []byte("9"))

	var keys []string
	if err := engine.Scan(ctx, nil, func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	}); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "z:other"}
	if len(keys) != len(want) {
		t.Fatalf("Scan keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	stats, err := engine.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Engine != EngineMemory || stats.TotalKeys != 4 {
		t.Errorf("Stats = %+v, want memory engine with 4 keys", stats)
	}

	if err := engine.Delete(ctx, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Get(ctx, []byte("a")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get deleted = %v, want ErrKeyNotFound", err)
	}

	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Get(ctx, []byte("b")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     KVConfig
		want    string
		wantErr bool
	}{
		{"memory", KVConfig{Engine: EngineMemory}, EngineMemory, false},
		{"badger", DefaultKVConfig(t.TempDir()), EngineBadger, false},
		{"unknown", KVConfig{Engine: "bolt"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := Open(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer engine.Close()

			stats, err := engine.Stats(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if stats.Engine != tt.want {
				t.Errorf("Engine = %q, want %q", stats.Engine, tt.want)
			}
		})
	}
}
