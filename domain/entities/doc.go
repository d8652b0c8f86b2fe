// Package entities provides the core domain types of the runtime host:
// capability provider groups, foreign handles, module records and mount
// entries. They carry no interpreter or provider dependencies.
package entities
