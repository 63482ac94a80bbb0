// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ClipmapVertexShader places one ring's grid vertices and fetches their heights
// from the ring's buffer texture.
//
//go:embed clipmap.vert
var ClipmapVertexShader string

// LandscapeFragmentShader shades terrain by height and slope and draws the brush outline.
//
//go:embed landscape.frag
var LandscapeFragmentShader string

// WireframeFragmentShader fills with a flat per-ring colour.
//
//go:embed wireframe.frag
var WireframeFragmentShader string
