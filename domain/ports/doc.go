// Package ports defines interfaces for infrastructure operations.
// These ports enable dependency inversion - capability adapters depend on
// abstractions, and provider packages implement these interfaces.
package ports
