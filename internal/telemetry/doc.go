// Package telemetry provides OpenTelemetry instrumentation for planqd.
//
// It manages the tracer and meter providers and their graceful shutdown.
// Telemetry failures never crash the application; a failed provider leaves
// the global no-op in place and marks the instance degraded.
//
// Spans are exported over OTLP gRPC. Metrics go to the same endpoint, and
// can additionally be bridged into the Prometheus registry served by the
// HTTP /metrics endpoint.
package telemetry
