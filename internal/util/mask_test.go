package util

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ana@example.com", "a…@e….com"},
		{"  ANA@Example.COM ", "a…@e….com"},
		{"a@b.co", "a@b.co"},
		{"pat@sub.example.org", "p…@s….example.org"},
		{"user@localhost", "u…@l…"},
		{"no-arroba", "n…a"},
		{"ab", "***"},
		{"", ""},
		{"@example.com", "@…m"},
	}
	for _, c := range cases {
		if got := MaskEmail(c.in); got != c.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
