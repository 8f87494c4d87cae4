package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"priceScope/internal/coingecko"
	"priceScope/internal/config"
	"priceScope/internal/convert"
	"priceScope/internal/model"
	"priceScope/internal/pricing"
	"priceScope/internal/registry"
	"priceScope/internal/storage"
	"priceScope/internal/storage/postgres"
	"priceScope/internal/subgraph"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *registry.Registry
	resolver *pricing.Resolver
	sink     storage.Storage
	closers  []func()
}

// newApp loads config and wires the resolver. The registry file is only
// read when withRegistry is set.
func newApp(ctx context.Context, cmd *cobra.Command, withRegistry bool) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	reg := registry.New(nil)
	if withRegistry {
		reg, err = registry.Load(cfg.Registry, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.registry = reg

	spot := coingecko.NewClient(coingecko.Config{
		BaseURL: cfg.CoinGeckoURL,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	pairs := subgraph.NewClient(subgraph.Config{
		V2URL:   cfg.UniswapV2URL,
		V3URL:   cfg.UniswapV3URL,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	a.resolver = pricing.NewResolver(reg, spot, pairs, convert.NewConverter(spot, logger), logger)

	var sinks storage.Multi
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		sinks = append(sinks, store)
	}
	a.sink = sinks

	logger.Debug("pricer configured",
		zap.String("registry", cfg.Registry),
		zap.String("coingecko_url", cfg.CoinGeckoURL),
		zap.String("uniswap_v2_url", cfg.UniswapV2URL),
		zap.String("uniswap_v3_url", cfg.UniswapV3URL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// emit writes the result to out and records it in the quote log.
func (a *app) emit(ctx context.Context, out io.Writer, quote model.QuoteRecord, result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	quote.Result = data
	quote.ResolvedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if err := a.sink.PutQuotes(ctx, []model.QuoteRecord{quote}); err != nil {
		return fmt.Errorf("store quote: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
