// Package template defines the renderer-agnostic template contract used to lay
// out generated source files. The pongo2 implementation lives in gotemplate.
package template
