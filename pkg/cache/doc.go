// Copyright © 2018 One Concern

// Package cache keeps checked out revisions in a local key-value store.
//
// Entries are keyed by a digest of the delta chain bytes and the revision
// number, so any change to a chain leaves its stale entries unreachable:
// no invalidation is needed. Badger (the default) and pebble back the store.
package cache
