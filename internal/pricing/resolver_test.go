package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceScope/internal/coingecko"
	"priceScope/internal/convert"
	"priceScope/internal/model"
	"priceScope/internal/registry"
	"priceScope/internal/subgraph"
)

const testPair = "0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"

type harness struct {
	resolver  *Resolver
	spotCalls *atomic.Int32
}

// newHarness wires real clients against fake CoinGecko and subgraph servers.
// usdPrices is keyed by asset id; pairBody is returned for every subgraph query.
func newHarness(t *testing.T, usdPrices map[string]float64, pairBody string) harness {
	t.Helper()

	var spotCalls atomic.Int32
	spot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spotCalls.Add(1)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))

		resp := map[string]map[string]float64{}
		key := r.URL.Query().Get("ids")
		if key == "" {
			key = r.URL.Query().Get("contract_addresses")
		}
		if price, ok := usdPrices[key]; ok {
			resp[key] = map[string]float64{"usd": price}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(spot.Close)

	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pairBody))
	}))
	t.Cleanup(graph.Close)

	reg := registry.New([]model.AssetRecord{
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "aave", Symbol: "aave", Name: "Aave"},
	})
	spotClient := coingecko.NewClient(coingecko.Config{BaseURL: spot.URL}, nil)
	pairClient := subgraph.NewClient(subgraph.Config{V2URL: graph.URL, V3URL: graph.URL}, nil)
	converter := convert.NewConverter(spotClient, nil)

	return harness{
		resolver:  NewResolver(reg, spotClient, pairClient, converter, nil),
		spotCalls: &spotCalls,
	}
}

func pairBody(root, price0, price1 string) string {
	return fmt.Sprintf(`{"data":{%q:{"id":%q,"token0":{"id":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},"token1":{"id":"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},"token0Price":%q,"token1Price":%q}}}`,
		root, testPair, price0, price1)
}

func parse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestResolveSinglePriceUSD(t *testing.T) {
	h := newHarness(t, map[string]float64{"ethereum": 3000}, "")

	result, err := h.resolver.ResolveSinglePrice(context.Background(), "Ethereum", model.USD)
	require.NoError(t, err)

	assert.Equal(t, "3000", result.CurrencyPrice)
	assert.Contains(t, result.CoinPerCurrencyUnit, "0.000333")
	assert.InDelta(t, 1/parse(t, result.CurrencyPrice), parse(t, result.CoinPerCurrencyUnit), 1e-15)
	assert.Equal(t, int32(1), h.spotCalls.Load())
}

func TestResolveSinglePriceChained(t *testing.T) {
	prices := map[string]float64{"aave": 100, "ethereum": 2000, "bitcoin": 50000}

	for _, tc := range []struct {
		currency model.Currency
		want     float64
	}{
		{model.ETH, 0.05},
		{model.BTC, 0.002},
	} {
		t.Run(tc.currency.Code(), func(t *testing.T) {
			h := newHarness(t, prices, "")

			result, err := h.resolver.ResolveSinglePrice(context.Background(), "Aave", tc.currency)
			require.NoError(t, err)

			assert.InDelta(t, tc.want, parse(t, result.CurrencyPrice), 1e-12)
			assert.InDelta(t, 1/tc.want, parse(t, result.CoinPerCurrencyUnit), 1e-6)
			// asset price plus exactly one reference price
			assert.Equal(t, int32(2), h.spotCalls.Load())
		})
	}
}

func TestResolveSinglePriceEUR(t *testing.T) {
	h := newHarness(t, map[string]float64{"ethereum": 3000}, "")

	for _, name := range []string{"Ethereum", "Unknown"} {
		_, err := h.resolver.ResolveSinglePrice(context.Background(), name, model.EUR)
		assert.ErrorIs(t, err, model.ErrUnimplementedCurrency)
	}
	assert.Equal(t, int32(0), h.spotCalls.Load())
}

func TestResolveSinglePriceUnknownAsset(t *testing.T) {
	h := newHarness(t, nil, "")

	_, err := h.resolver.ResolveSinglePrice(context.Background(), "Dogecoin", model.USD)
	assert.ErrorIs(t, err, model.ErrAssetNotFound)
	assert.Equal(t, int32(0), h.spotCalls.Load())
}

func TestResolveSinglePriceNotQuoted(t *testing.T) {
	h := newHarness(t, map[string]float64{}, "")

	_, err := h.resolver.ResolveSinglePrice(context.Background(), "Bitcoin", model.USD)
	assert.ErrorIs(t, err, model.ErrPriceNotQuoted)

	var srcErr *model.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "bitcoin", srcErr.ID)
}

func TestResolveTokenPrice(t *testing.T) {
	const contract = "0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9"
	h := newHarness(t, map[string]float64{contract: 50, "ethereum": 2500}, "")

	result, err := h.resolver.ResolveTokenPrice(context.Background(), "ethereum", contract, model.ETH)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, parse(t, result.CurrencyPrice), 1e-12)
	assert.InDelta(t, 50.0, parse(t, result.CoinPerCurrencyUnit), 1e-9)
}

func TestResolvePairPriceUSD(t *testing.T) {
	for _, version := range []model.AMMVersion{model.V2, model.V3} {
		t.Run(version.String(), func(t *testing.T) {
			h := newHarness(t, nil, pairBody(version.RootField(), "0.5", "2.0"))

			result, err := h.resolver.ResolvePairPrice(context.Background(), testPair, version, model.USD)
			require.NoError(t, err)

			assert.Equal(t, model.PairPriceResult{
				PairID:                testPair,
				Token0ID:              "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				Token0Price:           "0.5",
				Token0PerCurrencyUnit: "2",
				Token1ID:              "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				Token1Price:           "2.0",
				Token1PerCurrencyUnit: "0.5",
			}, result)
			assert.Equal(t, int32(0), h.spotCalls.Load())
		})
	}
}

func TestResolvePairPriceKeepsRawStrings(t *testing.T) {
	const price0 = "1834.123456789012345678901234"
	const price1 = "0.000545218765432109876543210"
	h := newHarness(t, map[string]float64{"ethereum": 2000}, pairBody("pair", price0, price1))

	result, err := h.resolver.ResolvePairPrice(context.Background(), testPair, model.V2, model.ETH)
	require.NoError(t, err)

	assert.Equal(t, price0, result.Token0Price)
	assert.Equal(t, price1, result.Token1Price)
	assert.InDelta(t, 1834.123456789012/2000, parse(t, result.Token0PerCurrencyUnit), 1e-9)
	// each token triggers its own reference lookup
	assert.Equal(t, int32(2), h.spotCalls.Load())
}

func TestResolvePairPriceBadDecimal(t *testing.T) {
	h := newHarness(t, nil, pairBody("pair", "abc", "2.0"))

	_, err := h.resolver.ResolvePairPrice(context.Background(), testPair, model.V2, model.USD)
	assert.ErrorIs(t, err, model.ErrNumericParse)
}

func TestResolvePairPriceEUR(t *testing.T) {
	h := newHarness(t, nil, pairBody("pair", "0.5", "2.0"))

	_, err := h.resolver.ResolvePairPrice(context.Background(), testPair, model.V2, model.EUR)
	assert.ErrorIs(t, err, model.ErrUnimplementedCurrency)
}

func TestResolvePairPriceSourceError(t *testing.T) {
	h := newHarness(t, nil, `{"data":{"pair":null}}`)

	_, err := h.resolver.ResolvePairPrice(context.Background(), testPair, model.V2, model.USD)
	assert.ErrorIs(t, err, model.ErrPairNotFound)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "3000", FormatFloat(3000.0))
	assert.Equal(t, "0.5", FormatFloat(0.5))
	assert.Equal(t, "0.0003333333333333333", FormatFloat(1.0/3000))
}
