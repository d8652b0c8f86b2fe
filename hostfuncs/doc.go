// Package hostfuncs builds the capability table exposed to the embedded
// runtime: native functions grouped by provider, called through a single
// calling convention and looked up by their literal names.
//
// A registry is immutable once built. The exact set of names per provider
// group is fixed by the bundles in this package; adding a capability is a
// change here, never a runtime decision.
package hostfuncs
