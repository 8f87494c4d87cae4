package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestCurrencyCodes(t *testing.T) {
	cases := map[Currency]string{USD: "usd", EUR: "eur", ETH: "eth", BTC: "btc"}
	for currency, want := range cases {
		if got := currency.Code(); got != want {
			t.Fatalf("code mismatch: %s != %s", got, want)
		}
		parsed, err := ParseCurrency(want)
		if err != nil {
			t.Fatalf("parse %s: %v", want, err)
		}
		if parsed != currency {
			t.Fatalf("parse %s: got %v", want, parsed)
		}
	}
}

func TestParseCurrencyDefaultsAndErrors(t *testing.T) {
	got, err := ParseCurrency("")
	if err != nil || got != USD {
		t.Fatalf("empty currency should default to usd, got %v %v", got, err)
	}
	got, err = ParseCurrency(" ETH ")
	if err != nil || got != ETH {
		t.Fatalf("expected eth, got %v %v", got, err)
	}
	if _, err := ParseCurrency("gbp"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestOnlyUSDIsNative(t *testing.T) {
	for _, c := range []Currency{USD, EUR, ETH, BTC} {
		if c.IsNative() != (c == USD) {
			t.Fatalf("native mismatch for %s", c)
		}
	}
}

func TestReferenceIDs(t *testing.T) {
	if id, ok := ETH.ReferenceID(); !ok || id != "ethereum" {
		t.Fatalf("eth reference: %s %v", id, ok)
	}
	if id, ok := BTC.ReferenceID(); !ok || id != "bitcoin" {
		t.Fatalf("btc reference: %s %v", id, ok)
	}
	if _, ok := USD.ReferenceID(); ok {
		t.Fatalf("usd has no reference coin")
	}
	if _, ok := EUR.ReferenceID(); ok {
		t.Fatalf("eur has no reference coin")
	}
}

func TestAMMVersion(t *testing.T) {
	if V2.RootField() != "pair" || V3.RootField() != "pool" {
		t.Fatalf("root field mismatch")
	}
	if V2.Number() != 2 || V3.Number() != 3 {
		t.Fatalf("number mismatch")
	}
	if V2.DefaultEndpoint() == V3.DefaultEndpoint() {
		t.Fatalf("versions must use different endpoints")
	}

	for input, want := range map[string]AMMVersion{"": V2, "v2": V2, "2": V2, "V3": V3, "3": V3} {
		got, err := ParseAMMVersion(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %v %v", input, got, err)
		}
	}
	if _, err := ParseAMMVersion("v4"); !errors.Is(err, ErrUnknownAMMVersion) {
		t.Fatalf("expected ErrUnknownAMMVersion, got %v", err)
	}
}

func TestSourceErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("price: %w", &SourceError{Source: "coingecko", Op: "simple price", ID: "aave", Err: ErrPriceNotQuoted})
	if !errors.Is(err, ErrPriceNotQuoted) {
		t.Fatalf("expected ErrPriceNotQuoted in chain")
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.ID != "aave" {
		t.Fatalf("expected SourceError for aave, got %v", err)
	}
	want := `price: coingecko simple price "aave": price not quoted`
	if err.Error() != want {
		t.Fatalf("message mismatch: %q", err.Error())
	}
}
