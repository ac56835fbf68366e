// Package assets embeds the WGSL programs shipped with the renderer.
package assets

import _ "embed"

// TriangleWGSL draws one colored triangle per bind group.
// Group 0 binding 0 is the color/offset block, binding 1 the per-object scale.
//
//go:embed triangle.wgsl
var TriangleWGSL string
