package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount in Brazilian reais, e.g. "R$1.500,00".
func FormatBRL(amount decimal.Decimal) string {
	cur := *money.New(0, money.BRL).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Scale is the number of decimal places stored for quantities and amounts.
const Scale = 10

// RateScale is the number of decimal places stored for interest rates.
const RateScale = 6

// fitsScale reports whether x can be stored without rounding.
func fitsScale(x decimal.Decimal) bool {
	return x.Equal(x.Round(Scale))
}

// ParseAmount parses a user-typed amount. It accepts a plain decimal
// ("1500.50"), the Brazilian notation ("1.500,50" or "1.500.000"), an
// optional "R$" prefix and a trailing "%". Input where the decimal part is
// ambiguous ("1.500", "1,500.00") is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, " ", "")

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	if whole, frac, ok := strings.Cut(s, ","); ok {
		// Brazilian notation: "." groups thousands, "," separates decimals.
		if frac == "" || strings.ContainsAny(frac, ".,") {
			return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
		}
		intPart, err := ungroup(whole, raw)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(sign + intPart + "." + frac)
	}

	switch strings.Count(s, ".") {
	case 0:
	case 1:
		whole, frac, _ := strings.Cut(s, ".")
		if len(frac) == 3 && strings.TrimLeft(whole, "0") != "" {
			return decimal.Zero, fmt.Errorf("ambiguous amount %q: use a decimal comma or drop the thousands separator", raw)
		}
	default:
		whole, err := ungroup(s, raw)
		if err != nil {
			return decimal.Zero, err
		}
		s = whole
	}
	return decimal.NewFromString(sign + s)
}

// ungroup removes "." thousands separators, which must split the integer
// part into groups of three digits.
func ungroup(s, raw string) (string, error) {
	if !strings.Contains(s, ".") {
		return s, nil
	}
	groups := strings.Split(s, ".")
	if n := len(groups[0]); n == 0 || n > 3 {
		return "", fmt.Errorf("invalid thousands separator in %q", raw)
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", fmt.Errorf("invalid thousands separator in %q", raw)
		}
	}
	return strings.Join(groups, ""), nil
}

// Amount is a decimal that also unmarshals from strings in any notation
// accepted by ParseAmount.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		return a.Decimal.UnmarshalJSON(b)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, err := ParseAmount(s)
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}
