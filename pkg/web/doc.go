// Package web serves the signup form as a server-rendered HTML page backed by
// a form.Controller.
//
// GET renders the page with the current input values, inline errors and
// modal. POST submits the posted values through the controller and renders
// the result. A small JSON API under api/fields/{id}/blur and .../focus lets
// the page's script run live validation as inputs lose or gain focus, and
// POST modal/close hides the modal.
package web
