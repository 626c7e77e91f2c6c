// SPDX-License-Identifier: MPL-2.0

// Package cache persists namespace metadata between clr invocations so that help
// and completion do not load every namespace each time.
//
// Entries live in a single SQLite file (modernc.org/sqlite) keyed by namespace key
// and are encoded as deterministic CBOR. Caching is an optimization only: a read
// or write failure falls back to a live load, and deleting the file clears the cache.
package cache
