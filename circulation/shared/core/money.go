package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMoney is returned when an amount can not be parsed.
var ErrInvalidMoney = errors.New("invalid money amount")

// Money is an amount in cents.
type Money int64

// ParseMoney accepts "5", "5.5", "5.50", "$5.50", ".75" and a single leading "-" in front of any of them.
func ParseMoney(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")

	whole, fraction, hasFraction := strings.Cut(s, ".")
	if !digitsOnly(whole) || (whole == "" && !hasFraction) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}

	if hasFraction && (len(fraction) == 0 || len(fraction) > 2 || !digitsOnly(fraction)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}

	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}

	cents := int64(0)
	if hasFraction {
		if len(fraction) == 1 {
			fraction += "0"
		}

		if cents, err = strconv.ParseInt(fraction, 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
		}
	}

	m := Money(units*100 + cents)
	if negative {
		m = -m
	}

	return m, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}

	return fmt.Sprintf("%s$%d.%02d", sign, int64(m)/100, int64(m)%100)
}
