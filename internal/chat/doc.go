// Package chat implements the chat widget's send/receive exchange.
//
// An Exchange owns one transcript. A send is split in two so a caller can show
// the optimistic placeholder before the backend answers:
//
//	pending, err := ex.Submit(ctx, input) // user message + "…" placeholder
//	if pending != nil {
//		pending.Resolve(ctx) // placeholder replaced by the reply or an error line
//	}
//
// Send does both in one call. Sends are serialized per exchange: while one is in
// flight, another Submit returns ErrBusy and the transcript is not touched. The
// placeholder is removed by id, so at most one exists and it never outlives the
// call that created it.
//
// Message content is untrusted. Render converts markdown with goldmark and then
// sanitizes the HTML with bluemonday before it reaches a template.
package chat
