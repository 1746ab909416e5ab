// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSizeUint2Truncates(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want Uint2
	}{
		{"whole", Size{300, 200}, Uint2{300, 200}},
		{"fractional", Size{640.9, 480.2}, Uint2{640, 480}},
		{"negative", Size{-1, 10}, Uint2{0, 10}},
		{"nan", Size{math.NaN(), 1}, Uint2{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Uint2(); got != tt.want {
				t.Errorf("Uint2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSizeEqual(t *testing.T) {
	a := Size{800, 600}
	if !a.Equal(Size{800, 600}) {
		t.Error("identical sizes not equal")
	}
	if a.Equal(Size{800, 601}) {
		t.Error("different heights reported equal")
	}
	if !(Size{0, 600}).Empty() {
		t.Error("zero width should be empty")
	}
}

func TestTriangleVerticesLayout(t *testing.T) {
	v := TriangleVertices()
	b := VerticesBytes(v[:])
	if len(b) != 3*VertexStride {
		t.Fatalf("len = %d, want %d", len(b), 3*VertexStride)
	}

	// Third vertex: position (0, 250), color blue.
	o := b[2*VertexStride:]
	if x := math.Float32frombits(binary.LittleEndian.Uint32(o[0:])); x != 0 {
		t.Errorf("x = %v, want 0", x)
	}
	if y := math.Float32frombits(binary.LittleEndian.Uint32(o[4:])); y != 250 {
		t.Errorf("y = %v, want 250", y)
	}
	for i := 8; i < 16; i++ {
		if o[i] != 0 {
			t.Fatalf("padding byte %d = %d, want 0", i, o[i])
		}
	}
	if blue := math.Float32frombits(binary.LittleEndian.Uint32(o[24:])); blue != 1 {
		t.Errorf("blue = %v, want 1", blue)
	}
}

func TestTriangleVerticesIsCopy(t *testing.T) {
	v := TriangleVertices()
	v[0].Position[0] = -1
	if TriangleVertices()[0].Position[0] != 250 {
		t.Error("mutating the returned array changed the shared triangle")
	}
}

func TestUint2Bytes(t *testing.T) {
	b := Uint2{X: 300, Y: 200}.Bytes()
	if got := binary.LittleEndian.Uint32(b[0:]); got != 300 {
		t.Errorf("x = %d, want 300", got)
	}
	if got := binary.LittleEndian.Uint32(b[4:]); got != 200 {
		t.Errorf("y = %d, want 200", got)
	}
}
