// Package migration applies versioned SQL migrations to a database/sql
// connection and tracks them in a schema_migrations table.
//
// Migration files live in an fs.FS (usually an embed.FS owned by the store
// backend) and follow the {version}_{description}.sql naming convention, for
// example 001_create_homeworks.sql. Each file runs in its own transaction
// together with the row recording it, so a failed migration leaves no trace.
// Applied files are fingerprinted with BLAKE2b; editing a file after it has
// been applied is reported as ErrChecksumMismatch.
package migration
