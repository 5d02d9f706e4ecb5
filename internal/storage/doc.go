// Package storage provides key-value engines for client-side state.
//
// The gate server keeps no session state. Storage here backs the usage
// quota counters that a client keeps for itself, as a browser would in
// local storage:
//
//   - BadgerEngine: durable embedded store (Badger v3)
//   - MemoryEngine: process-local store for tests and ephemeral use
//   - QuotaStore: adapts any KVEngine to quota.Store
package storage
