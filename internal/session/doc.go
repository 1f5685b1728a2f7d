// Package session holds the bearer credential used to talk to the assistant backend.
//
// # Overview
//
// A Store owns exactly one Credential for the lifetime of its medium. It is the
// single source of truth consulted by the API client (to attach the bearer header)
// and by the auth gate (to decide whether protected views are reachable).
//
// # Backends
//
//   - FileStore: durable file named "jwt" in a state directory (CLI)
//   - KVStore: durable row keyed "jwt" in a key/value backend such as SQLite
//   - CookieStore: a "jwt" cookie bound to one HTTP request/response (web admin)
//   - MemoryStore: process-local, mostly for tests
//
// Writes replace the credential wholesale. Nothing is encrypted beyond what the
// medium provides; the store is a trust boundary, not a vault.
//
// # Usage
//
//	store := session.NewFileStore(dir)
//	client := api.New(baseURL, store)
//	if _, ok := store.Get(); !ok {
//		// route to login
//	}
package session
