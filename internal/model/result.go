package model

// PriceResult is the resolved price of a single asset.
type PriceResult struct {
	CurrencyPrice       string `json:"currency_price"`
	CoinPerCurrencyUnit string `json:"coin_per_currency_unit"`
}

// PairPriceResult is the resolved price of both tokens of a pair.
type PairPriceResult struct {
	PairID                string `json:"pair"`
	Token0ID              string `json:"token0"`
	Token0Price           string `json:"token0_price"`
	Token0PerCurrencyUnit string `json:"token0_per_currency_unit"`
	Token1ID              string `json:"token1"`
	Token1Price           string `json:"token1_price"`
	Token1PerCurrencyUnit string `json:"token1_per_currency_unit"`
}
