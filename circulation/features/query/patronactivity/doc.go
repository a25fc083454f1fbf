// Package patronactivity implements the Patron Activity query: the patron's
// enrollment data with all open loans and holds, as shown on the patron's bookshelf.
package patronactivity
