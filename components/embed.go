// Package components ships the default component descriptors. Each file
// declares one component type; see pkg/descriptor for the format.
package components

import "embed"

// FS holds the descriptor files.
//
//go:embed *.yaml *.json *.cue
var FS embed.FS
