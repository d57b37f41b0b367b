// Package template defines the template rendering seam used by the HTML
// surface. The pongo subpackage provides the pongo2-backed implementation.
package template
