// Package ws streams display updates to WebSocket clients.
//
// The hub is a scheduler sink: every cycle's update is marshalled once and
// fanned out to all connected clients. A client that cannot keep up is
// disconnected rather than allowed to stall the fan-out. New clients get
// the most recent update immediately on connect.
package ws
