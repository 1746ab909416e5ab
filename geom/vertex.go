// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"encoding/binary"
	"math"
)

// VertexStride is the encoded size of one Vertex: position (8 bytes),
// padding (8 bytes), color (16 bytes).
const VertexStride = 32

// Vertex is one triangle corner: a 2D position in pixels relative to the
// viewport center and an RGBA color.
type Vertex struct {
	Position Vec2
	Color    Vec4
}

// triangle is the fixed payload drawn every frame.
var triangle = [3]Vertex{
	// 2D positions,      RGBA colors
	{Vec2{250, -250}, Vec4{1, 0, 0, 1}},
	{Vec2{-250, -250}, Vec4{0, 1, 0, 1}},
	{Vec2{0, 250}, Vec4{0, 0, 1, 1}},
}

// TriangleVertices returns the three vertices of the validation triangle.
// The returned array is a copy.
func TriangleVertices() [3]Vertex {
	return triangle
}

// VerticesBytes encodes vertices in shader layout.
func VerticesBytes(vertices []Vertex) []byte {
	b := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		o := b[i*VertexStride:]
		putFloat32(o[0:], v.Position[0])
		putFloat32(o[4:], v.Position[1])
		// o[8:16] stays zero: vec4 alignment.
		for j := 0; j < 4; j++ {
			putFloat32(o[16+4*j:], v.Color[j])
		}
	}
	return b
}

func putFloat32(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}
