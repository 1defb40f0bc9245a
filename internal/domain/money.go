package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

const currencySymbol = "R$"

var hundred = decimal.NewFromInt(100)

// Money is an immutable monetary amount. Catalog prices are kept in integer
// cents; amounts parsed without inCents keep their decimal units.
type Money struct {
	value   decimal.Decimal
	inCents bool
}

// ParseMoney parses a decimal-comma or decimal-point string. With inCents the
// stored value is round(parsed*100).
func ParseMoney(value string, inCents bool) (Money, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	parsed, err := decimal.NewFromString(normalized)
	if err != nil {
		return Money{}, apperrors.NewInvalidInput("money", value)
	}
	if inCents {
		return Money{value: parsed.Mul(hundred).Round(0), inCents: true}, nil
	}
	return Money{value: parsed}, nil
}

// MoneyFromCents builds a cents-based amount.
func MoneyFromCents(cents int64) Money {
	return Money{value: decimal.NewFromInt(cents), inCents: true}
}

// Value returns the stored amount in its own unit.
func (m Money) Value() decimal.Decimal {
	return m.value
}

// InCents reports whether the stored amount is expressed in cents.
func (m Money) InCents() bool {
	return m.inCents
}

// Cents returns the amount in integer cents whatever the stored unit.
func (m Money) Cents() int64 {
	if m.inCents {
		return m.value.IntPart()
	}
	return m.value.Mul(hundred).Round(0).IntPart()
}

func (m Money) units() decimal.Decimal {
	if m.inCents {
		return m.value.Shift(-2)
	}
	return m.value
}

// Add returns m+other expressed in m's unit.
func (m Money) Add(other Money) Money {
	if m.inCents {
		return MoneyFromCents(m.Cents() + other.Cents())
	}
	return Money{value: m.value.Add(other.units())}
}

// Equal compares amounts independent of unit.
func (m Money) Equal(other Money) bool {
	return m.units().Equal(other.units())
}

// Format renders the amount with two decimals and the currency symbol.
func (m Money) Format() string {
	return currencySymbol + " " + strings.Replace(m.units().StringFixed(2), ".", ",", 1)
}

func (m Money) String() string {
	return m.value.String()
}

// TotalOf sums amounts into a cents-based Money.
func TotalOf(amounts []Money) Money {
	total := MoneyFromCents(0)
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
