package convert

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

// SpotPricer fetches the price of one unit of an asset in a currency.
type SpotPricer interface {
	FetchPrice(ctx context.Context, id string, currency model.Currency) (float64, error)
}

// Converter turns a USD denominated price into a value in another
// reference currency.
type Converter struct {
	spot   SpotPricer
	logger *zap.Logger
}

func NewConverter(spot SpotPricer, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{spot: spot, logger: logger}
}

// Convert maps an asset's USD price into target:
//
//	USD:     1 / usdPrice, the asset units one dollar buys
//	ETH/BTC: usdPrice / reference coin USD price, the asset price in that coin
//	EUR:     model.ErrUnimplementedCurrency
//
// ETH and BTC cost exactly one extra spot price call; nothing is cached.
func (c *Converter) Convert(ctx context.Context, usdPrice float64, target model.Currency) (float64, error) {
	switch target {
	case model.USD:
		if usdPrice == 0 {
			return 0, fmt.Errorf("%w: zero usd price", model.ErrNumericParse)
		}
		return 1 / usdPrice, nil
	case model.ETH, model.BTC:
		refID, _ := target.ReferenceID()
		refPrice, err := c.spot.FetchPrice(ctx, refID, model.USD)
		if err != nil {
			return 0, fmt.Errorf("reference price %s: %w", refID, err)
		}
		if refPrice == 0 {
			return 0, fmt.Errorf("%w: zero reference price for %s", model.ErrNumericParse, refID)
		}
		c.logger.Debug("chained conversion",
			zap.String("reference", refID),
			zap.Float64("reference_usd", refPrice),
			zap.Float64("usd_price", usdPrice),
		)
		return usdPrice / refPrice, nil
	case model.EUR:
		return 0, fmt.Errorf("%w: %s", model.ErrUnimplementedCurrency, target.Code())
	default:
		return 0, fmt.Errorf("%w: %d", model.ErrUnknownCurrency, int(target))
	}
}

// ConvertDecimal parses a decimal string price and converts it. Values with
// more precision than float64 carries are rounded at this point.
func (c *Converter) ConvertDecimal(ctx context.Context, price string, target model.Currency) (float64, error) {
	value, err := ParseDecimal(price)
	if err != nil {
		return 0, err
	}
	return c.Convert(ctx, value, target)
}

// ParseDecimal parses a decimal string into float64.
func ParseDecimal(price string) (float64, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", model.ErrNumericParse, price, err)
	}
	value, _ := d.Float64()
	return value, nil
}
