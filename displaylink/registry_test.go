// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, nil, nil)
	r.Register("high", 100, nil, nil)
	r.Register("mid", 50, nil, nil)

	want := []string{"high", "mid", "low"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRegistryAvailableFilters(t *testing.T) {
	r := NewRegistry()
	r.Register("present", 10, nil, nil)
	r.Register("absent", 100, nil, func() bool { return false })

	if got := r.Available(); !slices.Equal(got, []string{"present"}) {
		t.Errorf("Available() = %v, want [present]", got)
	}
	if got := r.List(); len(got) != 2 {
		t.Errorf("List() = %v, want both entries", got)
	}
}

func TestRegistryUnregisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("a", 1, nil, nil)

	e, ok := r.Get("a")
	if !ok || e.Name != "a" || e.Priority != 1 {
		t.Fatalf("Get(a) = %+v, %v", e, ok)
	}
	e.Priority = 99
	if again, _ := r.Get("a"); again.Priority != 1 {
		t.Error("Get returned a shared entry")
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Get(a) found entry after Unregister")
	}
}

func TestRegistryConnectFallsThrough(t *testing.T) {
	r := NewRegistry()
	want := &manualLink{}
	r.Register("broken", 100, func(DisplayID) (Link, error) {
		return nil, errors.New("no vblank")
	}, nil)
	r.Register("nil", 50, func(DisplayID) (Link, error) { return nil, nil }, nil)
	r.Register("working", 10, func(DisplayID) (Link, error) { return want, nil }, nil)

	link, name, err := r.Connect(MainDisplay)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if name != "working" {
		t.Errorf("backend = %q, want working", name)
	}
	if link != want {
		t.Error("Connect returned an unexpected link")
	}
}

func TestRegistryConnectAllFail(t *testing.T) {
	r := NewRegistry()
	errLast := errors.New("last failure")
	r.Register("only", 1, func(DisplayID) (Link, error) { return nil, errLast }, nil)

	_, _, err := r.Connect(MainDisplay)
	if !errors.Is(err, ErrNoDisplayAvailable) {
		t.Errorf("err = %v, want ErrNoDisplayAvailable", err)
	}
	if !errors.Is(err, errLast) {
		t.Errorf("err = %v, want wrapped factory error", err)
	}
}

func TestDefaultRegistryHasTicker(t *testing.T) {
	if !slices.Contains(Available(), TickerBackend) {
		t.Fatalf("Available() = %v, want %q registered", Available(), TickerBackend)
	}
	link, name, err := DefaultRegistry().Connect(MainDisplay)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, ok := link.(*TickerLink); !ok && name == TickerBackend {
		t.Errorf("ticker backend returned %T", link)
	}
}
