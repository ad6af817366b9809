// Package journal provides a durable log of model mutations.
//
// Every mutating operation the application root performs (load a dataset,
// remove sources, assign a signal, flip a mode, set a scale) is appended
// as one record: a monotonic sequence number, the run token of the session
// that wrote it, an operation kind and a JSON payload. Replaying the log
// against an empty application rebuilds the exact model state, which is
// what crash recovery and the CLI's replay command are built on.
//
// SQLite in WAL mode backs the log. The journal is strictly append-only;
// the model's referential integrity lives in the engine, not here.
package journal
