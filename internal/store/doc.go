// Package store defines interfaces for event record persistence.
// These interfaces abstract the underlying storage mechanism (flat files,
// a key-value store or a SQL database) from the lifecycle tracker, which
// only needs to create, read, overwrite and list records by identifier.
package store
