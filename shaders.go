package contrail

// Vertex stage identifiers. Both built-in programs transform positions by
// the Matrix uniform into clip space; the textured stage also forwards
// texture coordinates.
const (
	vertexClip   = "clip-affine"
	vertexClipUV = "clip-affine-uv"
)

// colorFragment tints the vertex color: color*ColorMult + ColorOffset,
// clamped, then scaled by Alpha.
const colorFragment = `//kage:unit pixels

package main

var ColorOffset vec4
var ColorMult vec4
var Alpha float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return clamp(color*ColorMult+ColorOffset, 0, 1) * Alpha
}
`

// textureFragment samples the bound texture.
const textureFragment = `//kage:unit pixels

package main

var Alpha float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return imageSrc0At(srcPos) * Alpha
}
`

// ColorProgram draws vertex-colored triangles with a color offset and
// multiplier. Used by the airplane and the clouds.
var ColorProgram = ProgramSource{Name: "color", Vertex: vertexClip, Fragment: colorFragment}

// TextureProgram draws textured triangles.
var TextureProgram = ProgramSource{Name: "texture", Vertex: vertexClipUV, Fragment: textureFragment}
