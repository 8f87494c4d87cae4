package model

import (
	"fmt"
	"strings"
)

// Currency is a reference currency a price can be expressed in.
type Currency int

const (
	USD Currency = iota
	EUR
	ETH
	BTC
)

// Code returns the lower-case code used as the vs_currencies query value
// and as the response field selector.
func (c Currency) Code() string {
	switch c {
	case USD:
		return "usd"
	case EUR:
		return "eur"
	case ETH:
		return "eth"
	case BTC:
		return "btc"
	default:
		return ""
	}
}

func (c Currency) String() string {
	return c.Code()
}

// IsNative reports whether prices in c need no conversion.
func (c Currency) IsNative() bool {
	return c == USD
}

// ReferenceID returns the spot source id of the coin used for chained
// conversion into c. Only ETH and BTC have one.
func (c Currency) ReferenceID() (string, bool) {
	switch c {
	case ETH:
		return "ethereum", true
	case BTC:
		return "bitcoin", true
	default:
		return "", false
	}
}

// ParseCurrency parses a currency code. An empty string yields USD.
func ParseCurrency(input string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "usd":
		return USD, nil
	case "eur":
		return EUR, nil
	case "eth":
		return ETH, nil
	case "btc":
		return BTC, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, input)
	}
}
