package render

import (
	"path"
	"strings"
)

// RenderOptions carry per-run settings shared by every renderer.
type RenderOptions struct {
	// CommonImportPath is the module common definitions are imported from.
	// Empty keeps the component package default.
	CommonImportPath string
	// Layout controls where per-component files land. It is a pattern where
	// {type} and {symbol} are substituted; the default is "{symbol}".
	Layout string
}

// DefaultLayout places each component's files in a directory named after its
// export symbol.
const DefaultLayout = "{symbol}"

// ComponentDir expands the layout pattern for one component.
func (o RenderOptions) ComponentDir(typ, symbol string) string {
	layout := strings.TrimSpace(o.Layout)
	if layout == "" {
		layout = DefaultLayout
	}
	replacer := strings.NewReplacer("{type}", typ, "{symbol}", symbol)
	return path.Clean(replacer.Replace(layout))
}
