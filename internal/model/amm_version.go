package model

import (
	"fmt"
	"strings"
)

// AMMVersion selects the subgraph schema a pair is queried with.
type AMMVersion int

const (
	V2 AMMVersion = iota
	V3
)

const (
	DefaultUniswapV2URL = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2"
	DefaultUniswapV3URL = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"
)

// Number returns the protocol version number.
func (v AMMVersion) Number() int {
	switch v {
	case V3:
		return 3
	default:
		return 2
	}
}

// RootField returns the GraphQL root field holding the pair: "pair" for V2
// and "pool" for V3.
func (v AMMVersion) RootField() string {
	if v == V3 {
		return "pool"
	}
	return "pair"
}

// DefaultEndpoint returns the hosted subgraph URL for the version.
func (v AMMVersion) DefaultEndpoint() string {
	if v == V3 {
		return DefaultUniswapV3URL
	}
	return DefaultUniswapV2URL
}

func (v AMMVersion) String() string {
	return fmt.Sprintf("v%d", v.Number())
}

// ParseAMMVersion accepts "v2", "2", "v3" or "3". An empty string yields V2.
func ParseAMMVersion(input string) (AMMVersion, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "v2", "2":
		return V2, nil
	case "v3", "3":
		return V3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAMMVersion, input)
	}
}
