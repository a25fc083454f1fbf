// Package fulfill implements the Fulfill Loan use case.
//
// Fulfilling an open loan asks the vendor for the content in one delivery mechanism.
// The first fulfillment locks the loan to that mechanism; later requests may omit the
// mechanism or repeat it, but never switch to another one.
package fulfill
