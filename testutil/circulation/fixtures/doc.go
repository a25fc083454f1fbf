// Package fixtures provides patrons, pools and event store helpers for circulation feature tests.
package fixtures
