// Package submit sends a validated signup payload to the newsletter endpoint
// as a GET request with the payload encoded in the query string, and
// classifies the reply.
//
// Send returns the decoded response on a 2xx status. A non-2xx status yields
// a *RejectedError carrying the server's "error" detail when present; a
// transport failure or a body that is not JSON yields a *NetworkError. No
// retries are attempted.
package submit
