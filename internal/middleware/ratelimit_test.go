package middleware

import "testing"

func TestRateLimiterExhaustsBucket(t *testing.T) {
	l := NewRateLimiter(3, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over capacity should be denied")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(1, 1)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first key should be exhausted")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second key should have its own bucket")
	}
}

func TestRateLimiterDefaultsCapacityToRate(t *testing.T) {
	l := NewRateLimiter(0, 5)
	if l.capacity != 5 {
		t.Errorf("capacity = %d, want 5", l.capacity)
	}
}
