// Package revoke implements the Revoke Loan or Hold use case.
//
// An open loan is checked in at the vendor; a queued hold is released. A hold that already
// entered the reserved state cannot be released, and revoking without an open loan or hold
// is rejected. Rejections are recorded as RevokingFailed events.
package revoke
