// Package shaders embeds the GLSL sources for the layer programs.
// Both vertex stages write vShade; the flat stage always writes 1.
package shaders

import _ "embed"

//go:embed flat.vert
var FlatVertex string

//go:embed building.vert
var BuildingVertex string

//go:embed fragment.frag
var Fragment string
