package repository

import (
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	r := NewReferralRepository(nil, "BT")

	cases := []struct {
		userID     int64
		wantSuffix string
	}{
		{123456789, "456789"}, // long ids keep only the last six digits
		{925584, "925584"},
		{42, "42"}, // short ids are used whole
	}
	for _, tc := range cases {
		code, err := r.newCode(tc.userID)
		if err != nil {
			t.Fatalf("newCode(%d): %v", tc.userID, err)
		}
		if !strings.HasPrefix(code, "BT"+tc.wantSuffix) {
			t.Errorf("newCode(%d) = %q, want prefix BT%s", tc.userID, code, tc.wantSuffix)
		}
		salt := code[len("BT"+tc.wantSuffix):]
		if len(salt) != 4 {
			t.Errorf("newCode(%d) = %q, want a 4 hex char salt, got %q", tc.userID, code, salt)
		}
		if salt != strings.ToUpper(salt) {
			t.Errorf("newCode(%d) salt %q is not uppercase", tc.userID, salt)
		}
	}
}

func TestNewCodeSaltVaries(t *testing.T) {
	r := NewReferralRepository(nil, "BT")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := r.newCode(925584)
		if err != nil {
			t.Fatal(err)
		}
		seen[code] = true
	}
	// 2 salt bytes give 65536 values; 200 draws all landing on a handful
	// would mean the salt is broken.
	if len(seen) < 50 {
		t.Errorf("expected varied salts, got %d distinct codes out of 200", len(seen))
	}
}

func TestCodesFitColumn(t *testing.T) {
	r := NewReferralRepository(nil, "BT")
	for _, id := range []int64{1, 999999, 123456789012} {
		code, err := r.newCode(id)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) > 20 {
			t.Errorf("code %q exceeds the 20 char column", code)
		}
	}
}
