// Package clever verifies patrons through Clever's OAuth flow.
//
// The authorization code from the OAuth callback is exchanged for a bearer token, which is then
// used to look up the user, the user's school and the school's NCES id. Only students and teachers
// of Title I schools are eligible. Every remote failure fails closed as InvalidCredentials.
package clever
