package utils

import (
	"errors"
	"testing"
)

func TestOr(t *testing.T) {
	if got := Or("", "", "b", "c"); got != "b" {
		t.Fatalf("Or = %q, want b", got)
	}
	if got := Or(0, 0); got != 0 {
		t.Fatalf("Or = %d, want 0", got)
	}
}

func TestFilterSlice(t *testing.T) {
	got := FilterSlice([]int{1, 2, 3, 4}, func(i int) (int, bool) {
		return i * 10, i%2 == 0
	})
	if len(got) != 2 || got[0] != 20 || got[1] != 40 {
		t.Fatalf("FilterSlice = %v", got)
	}
}

func TestSafelyRunRecovers(t *testing.T) {
	sentinel := errors.New("boom")
	err := SafelyRun(func() { panic(sentinel) })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if err := SafelyRun(func() {}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
