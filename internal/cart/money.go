package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in minor currency units (paise).
type Money int64

// Rupees converts a major-unit amount to Money, rounding to the nearest paisa.
func Rupees(f float64) Money {
	return Money(math.Round(f * 100))
}

// ParseMoney converts a decimal string ("99.50") to Money. Empty or
// malformed input yields zero.
func ParseMoney(s string) Money {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Rupees(f)
}

func (m Money) Float() float64 {
	return float64(m) / 100
}

// String renders whole amounts without decimals ("150") and fractional
// amounts with two ("49.50").
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v%100 == 0 {
		return fmt.Sprintf("%s%d", sign, v/100)
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Display prefixes the rupee sign.
func (m Money) Display() string {
	return "₹" + m.String()
}

// MarshalJSON writes major units so persisted carts stay readable.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Float())
}

// UnmarshalJSON accepts a JSON number or a numeric string in major units.
func (m *Money) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*m = Rupees(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = ParseMoney(s)
	return nil
}
