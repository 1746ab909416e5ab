// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom defines the small fixed-size values that cross the GPU
// boundary: vectors, drawable sizes, clear colors and the triangle
// vertex payload.
//
// Byte encodings are little-endian and follow the WGSL/MSL layout rules
// for the vertex shader inputs: a vec2<f32> followed by a vec4<f32> is
// padded so that the color starts on a 16-byte boundary.
package geom

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// Vec2 is a two-component float32 vector.
type Vec2 = f32.Vec2

// Vec4 is a four-component float32 vector.
type Vec4 = f32.Vec4

// Uint2 is a two-component uint32 vector. The renderer uses it for the
// viewport size uniform.
type Uint2 struct {
	X, Y uint32
}

// Uint2Size is the encoded size of a Uint2 in bytes.
const Uint2Size = 8

// Bytes returns the little-endian encoding of v.
func (v Uint2) Bytes() []byte {
	b := make([]byte, Uint2Size)
	binary.LittleEndian.PutUint32(b[0:], v.X)
	binary.LittleEndian.PutUint32(b[4:], v.Y)
	return b
}

// String implements fmt.Stringer.
func (v Uint2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Size is a drawable size in backing pixels.
type Size struct {
	Width, Height float64
}

// Equal reports whether s and o have identical dimensions.
func (s Size) Equal(o Size) bool {
	return s.Width == o.Width && s.Height == o.Height
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Uint2 truncates s to integer pixel dimensions. Negative and NaN
// dimensions become zero.
func (s Size) Uint2() Uint2 {
	return Uint2{X: toUint32(s.Width), Y: toUint32(s.Height)}
}

// Scale returns s multiplied by k in both dimensions.
func (s Size) Scale(k float64) Size {
	return Size{Width: s.Width * k, Height: s.Height * k}
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(f)
}

// ClearColor is the RGBA color a render pass clears its target to.
// Components are in [0, 1].
type ClearColor struct {
	Red, Green, Blue, Alpha float64
}

// RGBA returns a ClearColor from its components.
func RGBA(r, g, b, a float64) ClearColor {
	return ClearColor{Red: r, Green: g, Blue: b, Alpha: a}
}

// OpaqueBlack is the default clear color of a view.
var OpaqueBlack = ClearColor{Alpha: 1}
