// Package field holds the ordered registry of form fields used by the signup
// controller: each entry binds an input handle owned by a surface to a
// validation predicate and a fixed error message.
//
// Predicates receive the trimmed input value together with a Lookup that
// resolves other fields' live values, so cross-field rules such as the
// repeat-password check always compare against the current input rather than
// a value captured at registration time.
package field
