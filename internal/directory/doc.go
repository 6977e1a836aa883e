// Package directory maintains the in-memory product snapshot shared across
// customer sessions.
//
// The snapshot is dual-keyed: every product is reachable by id and by name.
// It is built lazily on the first read, and Refresh replaces it atomically.
// Concurrent refreshes collapse into a single database reload
// (singleflight); readers see either the old or the new snapshot, never a
// partially-built one.
//
// All lookups hand out defensive copies. Mutating a returned product or a
// cloned table never corrupts the shared snapshot.
package directory
