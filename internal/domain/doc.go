// Package domain contains the core entities of the MCT tracker: the event
// record with its four fixed pipeline tasks, the incoming MCT request and
// the event identifier generator. It is independent of any storage,
// transport or delivery mechanism.
package domain
