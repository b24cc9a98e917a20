// Package backend is the declaration layer over the Live2D Cubism Core C ABI.
//
// Every native entry point declared in Live2DCubismCore.h has exactly one
// counterpart here. Two implementations exist behind build tags:
//
//   - the default build loads the core shared library at runtime with purego and
//     refuses to hand out a Core unless every declared symbol resolves;
//   - building with -tags cubism_cgo (and cgo enabled) compiles against the
//     vendor header and links the static library from third_party/CubismCore.
//
// Platforms supported by neither get a stub whose Load reports ErrNotBuilt.
//
// This is the only package allowed to touch native memory. Tables returned by
// the core are handed up as Go slices that alias native storage; the caller is
// responsible for not using them past the next mutating native call.
package backend
