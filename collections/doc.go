// Package collections buckets a library's languages into large, small and tiny collections
// by the number of works held in each language.
//
// Classify is pure. Estimate and Load persist and read the result as per-library settings.
package collections
