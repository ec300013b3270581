package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPasswordNormalizesCost(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		if _, err := HashPassword("hunter2", cost); err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
	}
}
