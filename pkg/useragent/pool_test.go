package useragent

import "testing"

func TestPool_DefaultFallback(t *testing.T) {
	p := NewPool(nil)
	if got := p.GetSequential(); got == "" {
		t.Fatalf("expected a default User-Agent, got empty string")
	}
}

func TestPool_Sequential(t *testing.T) {
	uas := []string{"a", "b", "c"}
	p := NewPool(uas)

	for i := 0; i < 6; i++ {
		want := uas[i%len(uas)]
		if got := p.GetSequential(); got != want {
			t.Errorf("round %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestPool_RandomFromPool(t *testing.T) {
	uas := []string{"x", "y"}
	p := NewPool(uas)

	for i := 0; i < 10; i++ {
		got := p.GetRandom()
		if got != "x" && got != "y" {
			t.Fatalf("random UA %q not from pool", got)
		}
	}
}

func TestPool_CopiesInput(t *testing.T) {
	uas := []string{"original"}
	p := NewPool(uas)
	uas[0] = "mutated"

	if got := p.GetSequential(); got != "original" {
		t.Errorf("pool should not observe caller mutation, got %q", got)
	}
}
