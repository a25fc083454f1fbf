// Package shell holds the imperative parts shared by all circulation features:
// mapping between domain events and storable events, optimistic-concurrency retry,
// handler results and the observability helpers used by the observable wrappers.
package shell
