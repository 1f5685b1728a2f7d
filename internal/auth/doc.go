// Package auth gates the console behind a stored bearer credential.
//
// # Gate
//
// A Gate has two states, Unauthenticated and Authenticated. The initial state is
// derived once from a session.Store: a present credential means Authenticated.
// Authenticate is the only transition and is driven by a successful LoginFlow.
// Nothing moves the gate back; a later 401 from the backend surfaces as a request
// failure in the view that made the call.
//
//	gate := auth.NewGate(store)
//	if to, ok := gate.Allow("/"); !ok {
//		// redirect to `to` (the login view)
//	}
//
// With WithExpiryCheck the initial derivation also reads the token's "exp" claim
// (unverified; the backend holds the signing key) and treats an expired token as
// absent.
//
// # HTTP
//
// RequireAuth builds a fresh gate from the request's store on every navigation and
// answers 303 See Other to LoginView when unauthenticated. The per-request store is
// placed on the context (WithStore/StoreFromContext) so handlers read the same one.
//
// # Login
//
//	flow := auth.NewLoginFlow(client, store, gate)
//	next, err := flow.Login(ctx, username, password)
//
// Any backend failure yields ErrLoginFailed, whose text is the only thing a user
// ever sees. The details go to the log.
package auth
