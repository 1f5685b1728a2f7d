// Package webadmin provides the browser surface of assist-console.
//
// # Overview
//
// The admin UI is server-rendered with html/template and htmx. The templates
// are embedded into the binary (templates/*.html, templates/partials/*.html).
//
// # Authentication
//
// There are no local accounts. POST /login forwards the credentials to the
// backend's /auth/token and stores the returned token verbatim in an HttpOnly
// cookie named "jwt" (session.CookieStore). Protected routes sit behind
// auth.RequireAuth, which derives a gate from that cookie on every navigation
// and redirects to /login when it is missing. Each request binds the API
// client to its own cookie, so every browser carries its own bearer.
//
// # Routes
//
// Public:
//
//	GET  /healthz
//	GET  /login, POST /login, POST /logout
//	GET  /chat, POST /chat/send, GET /chat/transcript
//
// Protected:
//
//	GET  /                       dashboard
//	GET  /views/logs?user_id=    htmx partial
//	GET  /views/session?user_id= htmx partial
//	GET  /views/fallbacks        htmx partial
//	GET  /views/fallback-source?user_id=
//	POST /train, GET /train/status
//
// # CSRF Protection
//
// Forms carry a csrf_token field matched against the assist_csrf cookie; htmx
// requests send it as X-CSRF-Token.
//
// # Chat
//
// Each browser gets a conversation id cookie. The chatHub keeps one
// chat.Exchange per conversation and drops idle ones after 30 minutes. A send
// renders the user message and the "…" placeholder immediately, resolves the
// reply in the background, and the transcript partial polls until the
// placeholder is gone. With a History configured, transcripts survive reloads
// and restarts. Each form post carries a submission_id; a repeated id within
// ten minutes is dropped (dedupe.Window).
//
// # Training
//
// One dashboard.Trainer is shared by the console. While it is in flight the
// trigger button is disabled and POST /train is a no-op.
package webadmin
