// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "testing"

type countedResource struct {
	releases int
}

func (r *countedResource) Release() { r.releases++ }

func TestSlotReplaceReleasesPrevious(t *testing.T) {
	var s Slot[*countedResource]
	if !s.Empty() {
		t.Fatal("zero Slot is not empty")
	}

	a, b := &countedResource{}, &countedResource{}
	s.Replace(a)
	if s.Get() != a {
		t.Fatal("Get() did not return the stored value")
	}

	s.Replace(b)
	if a.releases != 1 {
		t.Errorf("a released %d times, want 1", a.releases)
	}
	if b.releases != 0 {
		t.Errorf("b released %d times, want 0", b.releases)
	}

	s.Release()
	if b.releases != 1 {
		t.Errorf("b released %d times, want 1", b.releases)
	}
	if !s.Empty() {
		t.Error("slot not empty after Release")
	}

	s.Release()
	if a.releases != 1 || b.releases != 1 {
		t.Errorf("Release on empty slot released again: a=%d b=%d", a.releases, b.releases)
	}
}

func TestSlotReplaceSameValue(t *testing.T) {
	var s Slot[*countedResource]
	a := &countedResource{}
	s.Replace(a)
	s.Replace(a)
	if a.releases != 0 {
		t.Errorf("replacing with the held value released it %d times", a.releases)
	}
}

func TestSlotInterfaceType(t *testing.T) {
	var s Slot[Releaser]
	a := &countedResource{}
	s.Replace(a)
	s.Replace(nil)
	if a.releases != 1 {
		t.Errorf("released %d times, want 1", a.releases)
	}
}

func TestRenderPassDescriptorLiveCount(t *testing.T) {
	base := LiveRenderPassDescriptors()

	var s Slot[*RenderPassDescriptor]
	for range 10 {
		s.Replace(NewRenderPassDescriptor())
		if got := LiveRenderPassDescriptors() - base; got != 1 {
			t.Fatalf("live descriptors = %d, want 1", got)
		}
	}

	d := s.Get()
	s.Release()
	if got := LiveRenderPassDescriptors() - base; got != 0 {
		t.Errorf("live descriptors after Release = %d, want 0", got)
	}
	if !d.Released() {
		t.Error("descriptor not marked released")
	}

	d.Release()
	if got := LiveRenderPassDescriptors() - base; got != 0 {
		t.Errorf("double Release changed live count to %d", got)
	}
}

func TestRenderPassDescriptorReleaseDropsTexture(t *testing.T) {
	d := NewRenderPassDescriptor()
	d.ColorAttachments[0] = RenderPassColorAttachment{
		LoadAction:  LoadActionClear,
		StoreAction: StoreActionStore,
	}
	d.Release()
	if d.ColorAttachments[0].LoadAction != LoadActionDontCare {
		t.Error("attachments not cleared on Release")
	}
}

func TestPrimitiveTypeString(t *testing.T) {
	if got := PrimitiveTypeTriangle.String(); got != "Triangle" {
		t.Errorf("String() = %q, want Triangle", got)
	}
	if got := PrimitiveType(42).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}
