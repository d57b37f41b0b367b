// Package form implements the validation and submission controller of the
// signup form.
//
// A Controller is handed an explicit field registry, an inline error sink, a
// modal, a record store and a dispatcher. Surfaces translate their own events
// into Blur, Focus, Submit and CloseModal calls and call Restore once at start
// up to pre-fill the inputs from the last successful submission.
package form
