package middleware

import "testing"

func TestRateLimiter_PerCaller(t *testing.T) {
	l := NewRateLimiter(0.001, 2)

	for i := 0; i < 2; i++ {
		if !l.Allow("A") {
			t.Fatalf("call %d for A should be allowed", i+1)
		}
	}
	if l.Allow("A") {
		t.Error("third call for A should be limited")
	}
	if !l.Allow("B") {
		t.Error("B has its own bucket")
	}
}
