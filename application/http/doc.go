// Package http builds HTTP/1.0 request messages.
//
// Requests are written as-is onto a stream socket; the response is never
// parsed here.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc1945
package http
