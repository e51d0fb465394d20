// Package sqlite provides a SQLite-based implementation of the dataset store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.almanac/data/dataset.db
//
// # Thread Safety
//
// All operations are thread-safe. Appends run in a single transaction and
// SQLite in WAL mode serialises writers.
package sqlite
