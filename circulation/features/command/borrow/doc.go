// Package borrow implements the Borrow Book use case.
//
// A patron borrows a title from a license pool. When the vendor has no copy left the
// request turns into a hold, unless library policy hides holds. Fines above the configured
// threshold and audience restrictions of the patron's classification key reject the request
// with a ForbiddenByPolicy problem, recorded as a BorrowingFailed event.
package borrow
