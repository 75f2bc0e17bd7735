// Package registration keeps lights pushing their state to this controller.
//
// A light only sends syncPilot updates to controllers that have registered
// with it recently. The Scheduler registers a single light on demand (after a
// firstBeat, for example) and keeps every light on the segment subscribed by
// broadcasting a registration three times up front and then every 15 seconds
// until the returned Timer is stopped.
package registration
