package mob

import "testing"

func TestFormatMob(t *testing.T) {
	cases := []struct {
		pmob int64
		want string
	}{
		{0, "0"},
		{PmobPerMob, "1"},
		{20 * PmobPerMob, "20"},
		{1_500_000_000_000, "1.5"},
		{10_000_000_000, "0.01"},
		{9_990_000_000_000, "9.99"},
		{1, "0.000000000001"},
		{-1_500_000_000_000, "-1.5"},
	}
	for _, tc := range cases {
		if got := FormatMob(tc.pmob); got != tc.want {
			t.Errorf("FormatMob(%d) = %q, want %q", tc.pmob, got, tc.want)
		}
	}
}

func TestValueInCurrency(t *testing.T) {
	if got := ValueInCurrency(2*PmobPerMob, 15.5); got != 31.0 {
		t.Fatalf("ValueInCurrency = %v, want 31", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency("£", 25.5); got != "£25.50" {
		t.Fatalf("FormatCurrency = %q, want £25.50", got)
	}
}
