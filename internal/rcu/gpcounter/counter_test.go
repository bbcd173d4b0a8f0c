package gpcounter

import "testing"

func TestEnterOutermost(t *testing.T) {
	tests := []struct {
		name        string
		globalPhase uint64
		wantNest    uint32
		wantPhase   uint64
	}{
		{name: "phase zero", globalPhase: 0, wantNest: 1, wantPhase: 0},
		{name: "phase one", globalPhase: PhaseBit, wantNest: 1, wantPhase: PhaseBit},
		{name: "phase bit ignores other bits", globalPhase: PhaseBit | 7, wantNest: 1, wantPhase: PhaseBit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := EnterOutermost(tt.globalPhase)
			if got := c.NestDepth(); got != tt.wantNest {
				t.Errorf("NestDepth() = %d, want %d", got, tt.wantNest)
			}
			if got := c.Phase(); got != tt.wantPhase {
				t.Errorf("Phase() = %d, want %d", got, tt.wantPhase)
			}
		})
	}
}

func TestNestUnnestRoundTrip(t *testing.T) {
	c := EnterOutermost(PhaseBit)
	for i := 0; i < 1000; i++ {
		c = c.Nest()
	}
	if got := c.NestDepth(); got != 1001 {
		t.Fatalf("NestDepth() after 1000 nests = %d, want 1001", got)
	}
	for i := 0; i < 1000; i++ {
		c = c.Unnest()
	}
	if got := c.NestDepth(); got != 1 {
		t.Fatalf("NestDepth() after unwinding = %d, want 1", got)
	}
	if got := c.Phase(); got != PhaseBit {
		t.Errorf("Phase() changed across nest/unnest, got %d want %d", got, PhaseBit)
	}
}

func TestInactive(t *testing.T) {
	var zero Counter
	if !zero.Inactive() {
		t.Error("zero-value Counter should be Inactive")
	}
	c := EnterOutermost(0)
	if c.Inactive() {
		t.Error("outermost-entered Counter should not be Inactive")
	}
}

func TestSamePhase(t *testing.T) {
	c := EnterOutermost(PhaseBit)
	if !c.SamePhase(PhaseBit) {
		t.Error("counter should match the phase it was created with")
	}
	if c.SamePhase(0) {
		t.Error("counter should not match the flipped phase")
	}
}

func TestDeepNestingDoesNotCorruptPhase(t *testing.T) {
	c := EnterOutermost(PhaseBit)
	const depth = 1 << 20
	for i := 0; i < depth; i++ {
		c = c.Nest()
	}
	if got := c.Phase(); got != PhaseBit {
		t.Fatalf("phase corrupted after %d nests: got %d want %d", depth, got, PhaseBit)
	}
	if got := c.NestDepth(); got != depth+1 {
		t.Fatalf("NestDepth() = %d, want %d", got, depth+1)
	}
}
