// Package service contains the application use cases. EventTracker owns
// the MCT event lifecycle: it creates records, advances the four pipeline
// tasks, derives the event status and triggers outcome notifications.
//
// The service depends on the store.EventStore and notify.Notifier
// interfaces only; concrete backends are chosen in cmd/server.
package service
