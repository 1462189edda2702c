// Package driven defines interfaces that core services require from
// infrastructure: persistence and configuration. These are the "driven"
// ports in hexagonal architecture terminology - the application drives
// them.
//
// Implementations live in internal/adapters/driven.
package driven
