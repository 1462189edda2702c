// Package services implements the driving ports, orchestrating the
// activity store behind the CLI. Services hold no state of their own;
// every invariant is enforced transactionally by the store.
package services
