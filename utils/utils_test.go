package utils

import "testing"

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(10)
	if len(s) != 10 {
		t.Fatalf("len = %d, want 10", len(s))
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Errorf("non-digit %q in %q", c, s)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"  save10 ": "SAVE10",
		"SAVE10":    "SAVE10",
		"":          "",
		" \t ":      "",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}
