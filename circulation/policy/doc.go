// Package policy evaluates library lending policy: hidden holds, audience restrictions by
// patron classification, and the outstanding fines threshold.
//
// A Configuration is an immutable snapshot built once (see settings.LoadPolicy) and passed
// explicitly to every evaluation.
package policy
