// Package oteladapters implements the eventstore observability interfaces on OpenTelemetry:
// a slog bridge logger with trace correlation, a logger on the otel log API,
// a metrics collector on the otel metric API and a tracing collector on the otel trace API.
//
// The circulation command handlers and the postgres engine accept these through their
// functional options; the CLI wires them against the global providers.
package oteladapters
