// Package enrollpatron implements the Enroll Patron use case.
//
// Every successful identity verification enrolls the patron: the first one appends
// PatronEnrolled, later ones append PatronUpdated when the provider reports a new
// authorization identifier or external type, and are idempotent otherwise.
package enrollpatron
