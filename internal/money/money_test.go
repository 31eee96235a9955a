package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValid(t *testing.T) {
	cases := map[string]string{
		"10":      "10.00",
		"10.5":    "10.50",
		"0.01":    "0.01",
		"1250.75": "1250.75",
		"-3.20":   "-3.20",
	}
	for input, want := range cases {
		amount, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if got := Format(amount); got != want {
			t.Fatalf("Parse(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "10.0.0", "$5"} {
		if _, err := Parse(input); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Parse(%q) err = %v, want ErrInvalidAmount", input, err)
		}
	}
}

func TestParseRejectsSubCentPrecision(t *testing.T) {
	if _, err := Parse("10.001"); !errors.Is(err, ErrTooManyDecimals) {
		t.Fatalf("err = %v, want ErrTooManyDecimals", err)
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("25.00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, input := range []string{"0", "-1", "-0.01"} {
		if _, err := ParsePositive(input); !errors.Is(err, ErrNotPositive) {
			t.Fatalf("ParsePositive(%q) err = %v, want ErrNotPositive", input, err)
		}
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive(decimal.NewFromInt(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePositive(decimal.Zero); !errors.Is(err, ErrNotPositive) {
		t.Fatalf("err = %v, want ErrNotPositive", err)
	}
	if err := ValidatePositive(decimal.RequireFromString("1.005")); !errors.Is(err, ErrTooManyDecimals) {
		t.Fatalf("err = %v, want ErrTooManyDecimals", err)
	}
}
