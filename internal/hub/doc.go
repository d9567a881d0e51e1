// Package hub implements the real-time fan-out of district status changes.
//
// This package is internal to districtboard. The [Hub] owns the subscriber
// registry, split into two audiences: viewers, who receive the full state
// snapshot on join and every committed change afterwards, and operators,
// who register but receive no automatic pushes.
//
// The hub deliberately knows nothing about transports. Subscribers
// implement the small [Conn] interface; the server package adapts WebSocket
// connections to it and tests use in-process fakes, so the fan-out logic is
// exercised without a network.
package hub
