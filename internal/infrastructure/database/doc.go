// Package database provides the SQLite connection layer for Sundial Core.
//
// It wraps database/sql with WAL-mode configuration, embedded schema
// migrations, and health checks. SQLite is used as a single-writer store:
// the connection pool is pinned to one connection.
//
// Migrations are .sql files embedded by the top-level migrations package
// and applied in lexical filename order, each in its own transaction.
package database
