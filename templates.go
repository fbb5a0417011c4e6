package compgen

import (
	"io/fs"

	"github.com/goliatone/go-compgen/components"
	"github.com/goliatone/go-compgen/pkg/component"
)

// EmbeddedTemplates exposes the built-in TypeScript templates so callers can
// inspect or copy them without importing the component package directly.
func EmbeddedTemplates() fs.FS {
	return component.TemplatesFS()
}

// EmbeddedDescriptors exposes the descriptor files of the default component
// set.
func EmbeddedDescriptors() fs.FS {
	return components.FS
}
