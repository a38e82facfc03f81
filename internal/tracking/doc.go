// Package tracking implements the durable mapping between tracker issues and chat
// threads.
//
// A mapping (owner, repo, issue number) <-> thread id exists exactly while an issue is
// being synchronized. Both sides of the mapping are unique: an issue maps to at most one
// thread and a thread to at most one issue. Records are never updated in place; a changed
// association is a delete followed by a new Track.
//
// # Backends
//
//   - postgres: jackc/pgx connection pool, schema managed by the database package
//   - sqlite: database/sql with mattn/go-sqlite3, schema applied on open
//   - memory: mutex-guarded maps, used by tests and the memory driver
//
// Every backend enforces uniqueness itself, so concurrent Track calls for the same key
// cannot both succeed. Compound sequences (lookup then insert, lookup then delete) are
// serialized per repository with a Locker.
package tracking
