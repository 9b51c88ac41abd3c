// Package uri decomposes request URLs of the form
// scheme://host[:port][/path...] into a dialable [Target].
//
// Only the parts needed to open a stream socket and write an HTTP/1.0
// request line are recognized. Scheme is not interpreted.
package uri
