package model

import (
	"encoding/json"
)

const (
	QuoteKindAsset = "asset"
	QuoteKindToken = "token"
	QuoteKindPair  = "pair"
)

// QuoteRecord is a resolved quote as written to the quote log.
type QuoteRecord struct {
	Kind       string          `json:"kind"`
	Subject    string          `json:"subject"`
	Currency   string          `json:"currency"`
	AMMVersion string          `json:"amm_version,omitempty"`
	Result     json.RawMessage `json:"result"`
	ResolvedAt string          `json:"resolved_at"`
}
