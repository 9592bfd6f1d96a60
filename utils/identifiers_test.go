package utils

import (
	"strings"
	"testing"
)

func TestGenerateGuestIDUnique(t *testing.T) {
	a, err := GenerateGuestID()
	if err != nil {
		t.Fatalf("GenerateGuestID failed: %v", err)
	}
	b, err := GenerateGuestID()
	if err != nil {
		t.Fatalf("GenerateGuestID failed: %v", err)
	}

	if !strings.HasPrefix(a, "guest-") {
		t.Errorf("expected guest- prefix, got %s", a)
	}
	if a == b {
		t.Error("expected unique guest IDs")
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	ref, err := GenerateOrderNumber()
	if err != nil {
		t.Fatalf("GenerateOrderNumber failed: %v", err)
	}

	if !strings.HasPrefix(ref, "VEL-") {
		t.Errorf("expected VEL- prefix, got %s", ref)
	}
	if len(ref) != len("VEL-")+8 {
		t.Errorf("expected 8-char reference, got %s", ref)
	}
	for _, r := range strings.TrimPrefix(ref, "VEL-") {
		if !strings.ContainsRune(orderNumberAlphabet, r) {
			t.Errorf("order number contains invalid character %q: %s", r, ref)
		}
	}
}

func TestGenerateOTPCodeSixDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Errorf("expected 6-digit code, got %s", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("expected numeric code, got %s", code)
			}
		}
	}
}
