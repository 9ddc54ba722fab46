// Package rsakey defines the RSA key object model: the numeric parameters of a key pair or a public-only key,
// the invariants that tie them together, and fixed-length byte accessors for importing and exporting them.
//
// Keys are immutable after construction and safe for concurrent reads. A second owner should Clone a key
// rather than share it, since Destroy wipes the instance it is called on.
package rsakey
