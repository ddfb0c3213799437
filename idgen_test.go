package main

import "testing"

func TestCorrelationGen_Next(t *testing.T) {
	gen_ := &correlationGen{}
	for want_ := uint64(1); want_ <= 5; want_++ {
		if got_ := gen_.Next(); got_ != want_ {
			t.Errorf("Next() = %d, want %d", got_, want_)
		}
	}
}

func TestCorrelationGen_Independent(t *testing.T) {
	gen1_, gen2_ := &correlationGen{}, &correlationGen{}
	gen1_.Next()
	gen1_.Next()
	if got_ := gen2_.Next(); got_ != 1 {
		t.Errorf("fresh generator Next() = %d, want 1", got_)
	}
}
