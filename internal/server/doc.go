// Package server implements the request gateway for districtboard.
//
// This package is internal to districtboard and front-ends the mutation
// pipeline with a JSON HTTP API plus the WebSocket endpoint that feeds the
// broadcast hub. It holds no state of its own: reads come from the injected
// [StateService], writes go through it, and subscriber bookkeeping belongs
// to the hub.
package server
