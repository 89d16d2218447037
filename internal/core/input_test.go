package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionNone) // ignored
	f.Set(ActionDown)
	f.Set(ActionRight)

	got := f.Actions()
	want := []Action{ActionRight, ActionDown, ActionRight}
	if len(got) != len(want) {
		t.Fatalf("Actions() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Actions()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}

	if !f.Has(ActionDown) || f.Has(ActionUp) {
		t.Error("Has() does not match the recorded actions")
	}
}

func TestInputFrameClear(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)
	if len(f.Actions()) != 1 {
		t.Fatal("frame should hold one action after Set")
	}

	f.Clear()
	if len(f.Actions()) != 0 {
		t.Error("Clear() should leave the frame empty")
	}
	if f.Has(ActionUp) {
		t.Error("Has(ActionUp) after Clear")
	}
}

func TestActionString(t *testing.T) {
	if ActionLeft.String() != "Left" {
		t.Errorf("ActionLeft.String() = %q", ActionLeft.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}
