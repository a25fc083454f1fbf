// Package assessfines implements the Assess Fines use case: recording the outstanding fines
// balance an ILS reports for an enrolled patron.
package assessfines
