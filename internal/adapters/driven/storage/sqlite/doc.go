// Package sqlite provides the SQLite-backed implementation of the
// activity store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation.
//
// # Invariant enforcement
//
// Every mutation runs inside one transaction: the committed set is read,
// the candidate is validated by domain.ValidateCandidate, and the write
// is applied, all atomically. Two mechanisms live in the schema itself
// (see migrations/):
//
//   - A partial unique index over "stop_at IS NULL" makes storage the
//     arbiter of the single-running-activity invariant, so concurrent
//     invocations cannot race a check against a write.
//   - BEFORE INSERT/UPDATE triggers and CHECK constraints back up the
//     application-level checks for empty fields, interval ordering,
//     future boundaries, and overlaps.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Concurrency
//
// The database is opened in WAL mode with a busy timeout; a concurrent
// invocation holding the write lock surfaces as a transient error, not
// a deadlock. The tool never retries automatically.
package sqlite
