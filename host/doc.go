// Package host owns the embedded Lua interpreter of 9sh.
//
// New creates the interpreter and runs the fixed bootstrap sequence:
//
//  1. the language-support module "fennel", published as a global and in
//     package.loaded;
//  2. the native capability module "bindings.native", built from a
//     hostfuncs.Registry and published in package.loaded and as a global;
//  3. the application module "bindings", which receives the native table as
//     its chunk argument and is published in package.loaded only;
//  4. the boot module, published as the global "Boot".
//
// Every step must succeed before the next one starts. A failure is returned
// as a *errors.BootstrapError; the process-level caller decides to exit.
//
// Evaluate feeds one script fragment to the language module's eval entry
// point inside a protected call. Errors are reported on the diagnostics
// stream and either terminate the process (fail-fast) or are discarded.
package host
