package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

func runPrice(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	currency, err := model.ParseCurrency(a.cfg.Currency)
	if err != nil {
		return err
	}

	name := args[0]
	result, err := a.resolver.ResolveSinglePrice(ctx, name, currency)
	if err != nil {
		a.logger.Error("resolve price failed", zap.String("name", name), zap.String("currency", currency.Code()), zap.Error(err))
		return err
	}

	a.logger.Info("price resolved",
		zap.String("name", name),
		zap.String("currency", currency.Code()),
		zap.String("currency_price", result.CurrencyPrice),
		zap.String("coin_per_currency_unit", result.CoinPerCurrencyUnit),
	)

	return a.emit(ctx, cmd.OutOrStdout(), model.QuoteRecord{
		Kind:     model.QuoteKindAsset,
		Subject:  name,
		Currency: currency.Code(),
	}, result)
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	currency, err := model.ParseCurrency(a.cfg.Currency)
	if err != nil {
		return err
	}

	contract := args[0]
	result, err := a.resolver.ResolveTokenPrice(ctx, a.cfg.Platform, contract, currency)
	if err != nil {
		a.logger.Error("resolve token price failed", zap.String("contract", contract), zap.String("platform", a.cfg.Platform), zap.Error(err))
		return err
	}

	a.logger.Info("token price resolved",
		zap.String("contract", contract),
		zap.String("platform", a.cfg.Platform),
		zap.String("currency", currency.Code()),
		zap.String("currency_price", result.CurrencyPrice),
	)

	return a.emit(ctx, cmd.OutOrStdout(), model.QuoteRecord{
		Kind:     model.QuoteKindToken,
		Subject:  a.cfg.Platform + ":" + contract,
		Currency: currency.Code(),
	}, result)
}

func runPair(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	currency, err := model.ParseCurrency(a.cfg.Currency)
	if err != nil {
		return err
	}
	version, err := model.ParseAMMVersion(a.cfg.AMMVersion)
	if err != nil {
		return err
	}

	address := args[0]
	result, err := a.resolver.ResolvePairPrice(ctx, address, version, currency)
	if err != nil {
		a.logger.Error("resolve pair price failed", zap.String("pair", address), zap.Stringer("version", version), zap.Error(err))
		return err
	}

	a.logger.Info("pair price resolved",
		zap.String("pair", result.PairID),
		zap.Stringer("version", version),
		zap.String("currency", currency.Code()),
		zap.String("token0", result.Token0ID),
		zap.String("token1", result.Token1ID),
	)

	return a.emit(ctx, cmd.OutOrStdout(), model.QuoteRecord{
		Kind:       model.QuoteKindPair,
		Subject:    result.PairID,
		Currency:   currency.Code(),
		AMMVersion: version.String(),
	}, result)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.registry.Resolve(args[0])
	if err != nil {
		return err
	}

	a.logger.Info("asset resolved",
		zap.String("name", args[0]),
		zap.String("id", id),
		zap.Int("skipped_rows", len(a.registry.Skipped())),
	)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
	return err
}
