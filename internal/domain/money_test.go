package domain

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"19.99", 1999},
		{"25.00", 2500},
		{"25", 2500},
		{"0.5", 50},
		{"1234.05", 123405},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if err != nil {
			t.Fatalf("ParseCents(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseCentsRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "-0.50", "1.999", "1.2.3", "1,50", "12.-5", "1.+9", "+12.50", "12.", "."} {
		if _, err := ParseCents(in); err == nil {
			t.Fatalf("ParseCents(%q) accepted invalid input", in)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{1999, "19.99"},
		{2500, "25.00"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Fatalf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
