package convert

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceScope/internal/model"
)

type fakeSpot struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  []string
	err    error
}

func (f *fakeSpot) FetchPrice(_ context.Context, id string, currency model.Currency) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id+":"+currency.Code())
	if f.err != nil {
		return 0, f.err
	}
	price, ok := f.prices[id]
	if !ok {
		return 0, &model.SourceError{Source: "fake", Op: "price", ID: id, Err: model.ErrPriceNotQuoted}
	}
	return price, nil
}

func TestConvertUSDIsReciprocal(t *testing.T) {
	spot := &fakeSpot{}
	conv := NewConverter(spot, nil)

	got, err := conv.Convert(context.Background(), 3000, model.USD)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3000, got, 1e-18)
	assert.Empty(t, spot.calls)
}

func TestConvertChained(t *testing.T) {
	spot := &fakeSpot{prices: map[string]float64{"ethereum": 2000, "bitcoin": 50000}}
	conv := NewConverter(spot, nil)

	inEth, err := conv.Convert(context.Background(), 100, model.ETH)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, inEth, 1e-12)

	inBtc, err := conv.Convert(context.Background(), 100, model.BTC)
	require.NoError(t, err)
	assert.InDelta(t, 0.002, inBtc, 1e-12)

	// one reference lookup per conversion, always quoted in USD
	assert.Equal(t, []string{"ethereum:usd", "bitcoin:usd"}, spot.calls)
}

func TestConvertEURUnimplemented(t *testing.T) {
	spot := &fakeSpot{}
	conv := NewConverter(spot, nil)

	_, err := conv.Convert(context.Background(), 10, model.EUR)
	assert.ErrorIs(t, err, model.ErrUnimplementedCurrency)
	assert.Empty(t, spot.calls)
}

func TestConvertReferenceFailure(t *testing.T) {
	spot := &fakeSpot{err: &model.SourceError{Source: "fake", Op: "price", ID: "ethereum", Err: errors.New("boom")}}
	conv := NewConverter(spot, nil)

	_, err := conv.Convert(context.Background(), 10, model.ETH)
	var srcErr *model.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "ethereum", srcErr.ID)
}

func TestConvertZeroPrice(t *testing.T) {
	conv := NewConverter(&fakeSpot{prices: map[string]float64{"bitcoin": 0}}, nil)

	_, err := conv.Convert(context.Background(), 0, model.USD)
	assert.ErrorIs(t, err, model.ErrNumericParse)

	_, err = conv.Convert(context.Background(), 1, model.BTC)
	assert.ErrorIs(t, err, model.ErrNumericParse)
}

func TestConvertDecimal(t *testing.T) {
	conv := NewConverter(&fakeSpot{}, nil)

	got, err := conv.ConvertDecimal(context.Background(), "0.5", model.USD)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	_, err = conv.ConvertDecimal(context.Background(), "0.5.1", model.USD)
	assert.ErrorIs(t, err, model.ErrNumericParse)
}

func TestParseDecimalHighPrecision(t *testing.T) {
	got, err := ParseDecimal("1234.567890123456789012345678901234567890")
	require.NoError(t, err)
	assert.InDelta(t, 1234.5678901234568, got, 1e-9)

	_, err = ParseDecimal("")
	assert.ErrorIs(t, err, model.ErrNumericParse)
}
