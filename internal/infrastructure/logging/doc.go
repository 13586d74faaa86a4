// Package logging provides structured logging for a Gray Logic node.
//
// Logger wraps log/slog. Every entry carries the service name, the
// build version and the node ID, so logs from many nodes can share one
// collector:
//
//	{"level":"INFO","msg":"graph built","service":"graylogic-node","version":"1.2.0","node":"pump-house","functions":7}
//
// The logging section of the node configuration picks level, format
// and stream:
//
//	logging:
//	  level: info      # debug, info, warn, error
//	  format: json     # json, text
//	  output: stdout   # stdout, stderr
//
// Component returns a child logger tagged with a component name; the
// node hands one to the handler, the API, the runner and the MQTT
// client. The handler, runner and MQTT client only declare small Logger
// interfaces, which *Logger satisfies.
//
// Never log secrets: JWT secrets, tokens and broker passwords stay out
// of log fields.
package logging
