package set

import (
	"sort"
	"testing"
)

func TestFromSlices(t *testing.T) {
	s := FromSlices([]string{"a", "b"}, []string{"b", "c"}, nil)
	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}
	for _, item := range []string{"a", "b", "c"} {
		if !s.Contains(item) {
			t.Errorf("expected set to contain %q", item)
		}
	}
}

func TestDifference(t *testing.T) {
	a := FromSlice([]string{"a", "b", "c"})
	b := FromSlice([]string{"b"})

	got := a.Difference(b).ToSlice()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Difference() = %v, want [a c]", got)
	}
}

func TestIntersection(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]int{2, 3, 4})
	if got := a.Intersection(b).Size(); got != 2 {
		t.Errorf("Intersection size = %d, want 2", got)
	}
}
