// Package api is the daemon's HTTP control surface.
//
// It exposes the current snapshot and alert history as JSON, mounts the
// WebSocket hub and the metrics endpoint, and accepts the exit command.
// All state is read from the scheduler; the API holds none of its own.
package api
