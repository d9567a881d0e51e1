// Package store holds the authoritative in-memory district state.
//
// This package is internal to districtboard and provides:
//
//   - [Store]: Interface defining snapshot, read, and write operations
//   - [MemoryStore]: In-memory implementation with a fixed key set
//   - [Validator]: Pre-write validation of mutation requests
//   - [Record], [Snapshot], [Status]: The shared data model
//
// The store is the single source of truth while the process is alive; the
// durable snapshot managed by the persist package is a side channel to
// survive restarts, not a transaction log. The key set is fixed at
// construction from the known-district enumeration: writes replace existing
// records, never insert or delete.
package store
