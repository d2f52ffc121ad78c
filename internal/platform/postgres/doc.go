// Package postgres provides the PostgreSQL implementation of
// store.EventStore. It owns the events table schema (applied with goose
// on startup) and maps pgx driver errors to the store error taxonomy.
package postgres
