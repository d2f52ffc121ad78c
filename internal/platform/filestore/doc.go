// Package filestore implements store.EventStore as one JSON document per
// event, named <eventID>.json, inside a single directory. The filesystem is
// an afero.Fs so tests can run against memory.
package filestore
