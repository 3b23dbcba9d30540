package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var moneyPattern = regexp.MustCompile(`^(\d+)(?:[.,](\d{1,2}))?$`)

// Money is an amount in cents
type Money int64

// ParseMoney accepts "12", "12.5", "12,50" and returns the amount in cents
func ParseMoney(s string) (Money, error) {
	m := moneyPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}

	units, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || units > (1<<62)/100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}

	var cents int64
	switch len(m[2]) {
	case 1:
		cents = int64(m[2][0]-'0') * 10
	case 2:
		cents = int64(m[2][0]-'0')*10 + int64(m[2][1]-'0')
	}
	return Money(units*100 + cents), nil
}

// MustParseMoney is ParseMoney for constants in tests and defaults
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the storage form, "12.50"
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Display renders the form shown in the wizard, "12,50"
func (m Money) Display() string {
	return strings.Replace(m.String(), ".", ",", 1)
}

// MarshalJSON encodes Money as a decimal number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a string in either separator
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Quantity is a positive ticket count
type Quantity int

// ParseQuantity parses a positive integer string
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '0' || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return Quantity(n), nil
}

func (q Quantity) String() string {
	return strconv.Itoa(int(q))
}
