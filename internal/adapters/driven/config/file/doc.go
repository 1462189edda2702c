// Package file provides a TOML file-backed implementation of the
// configuration port. Keys use dot notation ("log.limit") and map onto
// nested TOML tables.
package file
