package model

// Pair is the version-agnostic view of a V2 pair or V3 pool.
//
// Token0Price and Token1Price are kept as the decimal strings returned by
// the subgraph; they are only parsed when a currency amount is computed.
type Pair struct {
	ID          string `json:"id"`
	Token0ID    string `json:"token0"`
	Token1ID    string `json:"token1"`
	Token0Price string `json:"token0_price"`
	Token1Price string `json:"token1_price"`
}
