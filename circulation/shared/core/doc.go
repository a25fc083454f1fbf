// Package core holds the circulation domain: patrons, license pools, loans and holds,
// and the events that record every change to them.
//
// Nothing in here does I/O. Command features project these events into state and decide
// on new events with pure functions; the shell package maps them to and from the event store.
package core
