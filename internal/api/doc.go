// Package api implements the HTTP REST API and WebSocket server of a
// Gray Logic node.
//
// This package provides:
//   - REST endpoints for the values, schema and log documents
//   - PATCH /handler to run lifecycle commands
//   - A WebSocket hub pushing the values document to every client
//   - JWT authentication mapping roles onto Tag requester masks
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Runtime Contract
//
//	GET   /api/v1/values   {"elements":{<func>:{"data":{..},"config":{..}}}}
//	POST  /api/v1/values   same shape (or flat per function), applied; values returned
//	PATCH /api/v1/handler  body "reinit" → {"result":"done"}
//	GET   /api/v1/schema   schema document of the live graph
//	GET   /api/v1/log      log document of the latest build
//	GET   /api/v1/health   liveness plus dependency checks
//	GET   /api/v1/ws       WebSocket
//
// The WebSocket carries bare values documents. A client receives one on
// connect and one every publish interval; any document it sends is
// applied and answered with the current values.
//
// # Security
//
// With security.auth_enabled every request needs an HS256 bearer token
// for this node (the WebSocket accepts it as ?token=). Without it every
// request acts as admin.
package api
