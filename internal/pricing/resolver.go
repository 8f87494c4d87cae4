package pricing

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"priceScope/internal/convert"
	"priceScope/internal/model"
)

// AssetResolver maps a display name to a spot source id.
type AssetResolver interface {
	Resolve(name string) (string, error)
}

// SpotSource fetches spot prices by id or by contract address.
type SpotSource interface {
	FetchPrice(ctx context.Context, id string, currency model.Currency) (float64, error)
	FetchTokenPrice(ctx context.Context, platform, contract string, currency model.Currency) (float64, error)
}

// PairSource fetches AMM pair data.
type PairSource interface {
	FetchPair(ctx context.Context, pairAddress string, version model.AMMVersion) (model.Pair, error)
}

// CurrencyConverter converts a USD price into a reference currency.
type CurrencyConverter interface {
	Convert(ctx context.Context, usdPrice float64, target model.Currency) (float64, error)
}

// Resolver composes the registry, the price sources and the converter.
// It holds no per-call state and is safe for concurrent use as long as its
// dependencies are.
type Resolver struct {
	assets    AssetResolver
	spot      SpotSource
	pairs     PairSource
	converter CurrencyConverter
	logger    *zap.Logger
}

func NewResolver(assets AssetResolver, spot SpotSource, pairs PairSource, converter CurrencyConverter, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		assets:    assets,
		spot:      spot,
		pairs:     pairs,
		converter: converter,
		logger:    logger,
	}
}

// ResolveSinglePrice prices the asset registered under name in currency.
// The spot source is always asked for USD; other currencies are derived.
func (r *Resolver) ResolveSinglePrice(ctx context.Context, name string, currency model.Currency) (model.PriceResult, error) {
	if err := checkCurrency(currency); err != nil {
		return model.PriceResult{}, err
	}

	id, err := r.assets.Resolve(name)
	if err != nil {
		return model.PriceResult{}, err
	}

	usdPrice, err := r.spot.FetchPrice(ctx, id, model.USD)
	if err != nil {
		return model.PriceResult{}, fmt.Errorf("price %s: %w", name, err)
	}
	r.logger.Debug("spot price", zap.String("name", name), zap.String("id", id), zap.Float64("usd", usdPrice))

	return r.priceResult(ctx, usdPrice, currency)
}

// ResolveTokenPrice prices a token by contract address on platform.
func (r *Resolver) ResolveTokenPrice(ctx context.Context, platform, contract string, currency model.Currency) (model.PriceResult, error) {
	if err := checkCurrency(currency); err != nil {
		return model.PriceResult{}, err
	}

	usdPrice, err := r.spot.FetchTokenPrice(ctx, platform, contract, model.USD)
	if err != nil {
		return model.PriceResult{}, fmt.Errorf("token price %s: %w", contract, err)
	}
	r.logger.Debug("token price", zap.String("platform", platform), zap.String("contract", contract), zap.Float64("usd", usdPrice))

	return r.priceResult(ctx, usdPrice, currency)
}

// ResolvePairPrice prices both tokens of a pair. The raw token prices are
// copied into the result unchanged; only the per currency unit fields are
// derived from them.
func (r *Resolver) ResolvePairPrice(ctx context.Context, pairAddress string, version model.AMMVersion, currency model.Currency) (model.PairPriceResult, error) {
	if err := checkCurrency(currency); err != nil {
		return model.PairPriceResult{}, err
	}

	pair, err := r.pairs.FetchPair(ctx, pairAddress, version)
	if err != nil {
		return model.PairPriceResult{}, err
	}

	price0, err := convert.ParseDecimal(pair.Token0Price)
	if err != nil {
		return model.PairPriceResult{}, fmt.Errorf("token0 price of %s: %w", pair.ID, err)
	}
	price1, err := convert.ParseDecimal(pair.Token1Price)
	if err != nil {
		return model.PairPriceResult{}, fmt.Errorf("token1 price of %s: %w", pair.ID, err)
	}

	var perUnit0, perUnit1 float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.converter.Convert(gctx, price0, currency)
		if err != nil {
			return fmt.Errorf("convert token0 %s: %w", pair.Token0ID, err)
		}
		perUnit0 = v
		return nil
	})
	g.Go(func() error {
		v, err := r.converter.Convert(gctx, price1, currency)
		if err != nil {
			return fmt.Errorf("convert token1 %s: %w", pair.Token1ID, err)
		}
		perUnit1 = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PairPriceResult{}, err
	}

	return model.PairPriceResult{
		PairID:                pair.ID,
		Token0ID:              pair.Token0ID,
		Token0Price:           pair.Token0Price,
		Token0PerCurrencyUnit: FormatFloat(perUnit0),
		Token1ID:              pair.Token1ID,
		Token1Price:           pair.Token1Price,
		Token1PerCurrencyUnit: FormatFloat(perUnit1),
	}, nil
}

// priceResult derives both result fields from a USD price. For USD the
// currency price is the spot price itself; for ETH and BTC it is the
// converted value. CoinPerCurrencyUnit is always its reciprocal.
func (r *Resolver) priceResult(ctx context.Context, usdPrice float64, currency model.Currency) (model.PriceResult, error) {
	if currency.IsNative() {
		perUnit, err := r.converter.Convert(ctx, usdPrice, currency)
		if err != nil {
			return model.PriceResult{}, err
		}
		return model.PriceResult{
			CurrencyPrice:       FormatFloat(usdPrice),
			CoinPerCurrencyUnit: FormatFloat(perUnit),
		}, nil
	}

	converted, err := r.converter.Convert(ctx, usdPrice, currency)
	if err != nil {
		return model.PriceResult{}, err
	}
	if converted == 0 {
		return model.PriceResult{}, fmt.Errorf("%w: zero price in %s", model.ErrNumericParse, currency.Code())
	}
	return model.PriceResult{
		CurrencyPrice:       FormatFloat(converted),
		CoinPerCurrencyUnit: FormatFloat(1 / converted),
	}, nil
}

func checkCurrency(currency model.Currency) error {
	switch currency {
	case model.USD, model.ETH, model.BTC:
		return nil
	case model.EUR:
		return fmt.Errorf("%w: %s", model.ErrUnimplementedCurrency, currency.Code())
	default:
		return fmt.Errorf("%w: %d", model.ErrUnknownCurrency, int(currency))
	}
}

// FormatFloat renders a price with the shortest exact decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
