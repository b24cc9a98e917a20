// Package internalcheck holds source-level policy tests for the cubism
// packages.
//
// The tests load the module with golang.org/x/tools/go/packages and inspect
// syntax and type information. They check that only the backend touches the
// native boundary, that no exported API hands out raw pointers, and that
// errors built with fmt.Errorf keep a sentinel in their chain.
//
// # Internal Use Only
//
// This package has no exported API and should not be imported.
package internalcheck
