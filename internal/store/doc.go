// Package store provides local persistence for the console using SQLite.
//
// Two concerns live here:
//
//   - client_state: a small key/value table. The CLI keeps its bearer
//     credential in it when session.driver is "sqlite" (see session.KVStore).
//   - chat_messages: resolved chat widget messages, grouped by conversation,
//     so a transcript can be restored after a reload.
//
// # SQLite Configuration
//
// The store uses modernc.org/sqlite (pure Go) with WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// The schema is created on open. Use NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
// in tests.
//
// # Error Handling
//
//   - ErrNotFound: requested entity does not exist
//
// All methods accept context.Context for cancellation support.
package store
