// Package identity holds what identity providers hand to circulation: the verified PatronData,
// the patron eligibility classification, the Title I school allow-list and the circulation
// manager's own bearer tokens.
package identity
