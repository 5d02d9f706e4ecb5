// Package cmap provides a string-keyed concurrent map sharded by murmur3 hash.
//
// It backs the small per-client and per-credential caches of the gate
// (login rate limiters, verified admin credentials), where many request
// goroutines read and a few write.
//
// Usage:
//
//	m := cmap.New[*rate.Limiter]()
//	lim := m.GetOrCreate(ip, func() *rate.Limiter { return rate.NewLimiter(r, b) })
//
// Thread Safety:
//
// All operations are thread-safe. Reads take the shard RLock, writes take
// the shard Lock.
package cmap
