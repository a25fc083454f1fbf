// Package request parses the paging and facet parameters of catalog requests.
// Invalid parameters are reported as InvalidInput problems.
package request
