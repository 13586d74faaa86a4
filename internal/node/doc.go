// Package node drives a built Function graph at run time.
//
// The Runner owns the two periodic loops of a node:
//
//	tick    (node.tick_interval_ms)    ──▶ handler.Tick: links, then Update
//	publish (node.publish_interval_ms) ──▶ WebSocket push, MQTT values,
//	                                       InfluxDB data points
//
// It also accepts remote input over MQTT: a values document on the
// node's set topic is applied with write permission, and a lifecycle
// command on the command topic is run through handler.Patch with its
// result published on the result topic.
//
// Every outlet is optional. A Runner with none of them still ticks the
// graph, which is all a standalone node needs.
package node
