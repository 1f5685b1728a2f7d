// Package api is the HTTP client for the external assistant backend.
//
// Every call goes through Client.Do, which resolves the path against a fixed base
// URL and attaches "Authorization: Bearer <token>" whenever the injected
// session.Store holds a credential. Call sites never set auth headers themselves.
//
// Failures are always *RequestFailure:
//
//   - KindNetwork: no response reached the client (includes timeouts)
//   - KindHTTP: non-2xx status, with the status code and raw body
//   - KindDecode: the body was not the expected JSON
//
// There is no retry policy. A per-call timeout can be configured with WithTimeout;
// it is disabled by default.
package api
