// Package testdoubles provides spies for the observability interfaces of the eventstore package,
// so that instrumentation of engines, command handlers and query handlers can be asserted
// without a telemetry backend.
package testdoubles
