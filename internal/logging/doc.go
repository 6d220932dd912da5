// Package logging provides structured, context-aware logging for planqd.
//
// The Logger wraps zap with methods that pull correlation fields (trace IDs,
// user ID, session ID, request ID) out of the context on every call, so
// handlers and the retrieval pipeline never thread those fields manually.
//
// Output goes to stdout (JSON or console encoding) and, optionally, to an
// OpenTelemetry log exporter through the otelzap bridge.
package logging
