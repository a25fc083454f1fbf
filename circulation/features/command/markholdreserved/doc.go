// Package markholdreserved implements the Mark Hold Reserved use case: a vendor reports
// that a copy is now held for the patron, which moves the hold from queued to reserved.
// From then on the hold can no longer be released.
package markholdreserved
