// Package dashboard holds the admin dashboard's read-only views and the
// training trigger.
//
// Each view calls exactly one backend endpoint through the api.Client and
// hands back the raw decoded response. Views keyed by user id refuse an empty
// id without calling the backend (ErrUserIDRequired).
//
// Trainer tracks idle / in-flight / done. While a request is in flight,
// Start and Run return ErrTrainingInFlight and send nothing.
//
// SourceTag maps the answering engine reported by the backend to a label and
// a color. Unknown engines keep their uppercased name with a neutral color.
package dashboard
