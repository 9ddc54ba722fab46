// Package internalcheck holds source-level policy tests for the packages that handle key material.
//
// It has no exported API. The tests load the checked packages with golang.org/x/tools/go/packages and fail on
// constructs that leak timing or secrets: == and bytes.Equal on byte data, and %x formatting.
package internalcheck
