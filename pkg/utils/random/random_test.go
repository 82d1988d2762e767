package random

import (
	"strings"
	"testing"
)

func TestNumeric(t *testing.T) {
	s := Numeric(6)
	if len(s) != 6 {
		t.Fatalf("len = %d, want 6", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(digits, r) {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
	if Numeric(0) != "" || Numeric(-1) != "" {
		t.Fatal("non-positive lengths should yield an empty string")
	}
}
