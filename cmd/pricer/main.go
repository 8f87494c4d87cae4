package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "pricer",
		Short:        "Crypto asset and Uniswap pair price resolver",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("registry", "./CoinGecko_Token_API_List.csv", "asset list CSV (Id,Symbol,Name)")
	root.PersistentFlags().String("coingecko-url", "https://api.coingecko.com/api/v3", "CoinGecko API base URL")
	root.PersistentFlags().String("uniswap-v2-url", "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2", "Uniswap V2 subgraph URL")
	root.PersistentFlags().String("uniswap-v3-url", "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3", "Uniswap V3 subgraph URL")
	root.PersistentFlags().Duration("http-timeout", 0, "per request HTTP timeout (default 15s)")
	root.PersistentFlags().String("currency", "usd", "reference currency (usd, eur, eth, btc)")
	root.PersistentFlags().String("out", "", "append resolved quotes to this JSONL file")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN for the quote log")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	priceCmd := &cobra.Command{
		Use:   "price <asset name>",
		Short: "Price an asset by its registry display name",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrice,
	}
	root.AddCommand(priceCmd)

	tokenCmd := &cobra.Command{
		Use:   "token <contract address>",
		Short: "Price a token by contract address",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}
	tokenCmd.Flags().String("platform", "ethereum", "CoinGecko asset platform id")
	root.AddCommand(tokenCmd)

	pairCmd := &cobra.Command{
		Use:   "pair <pair address>",
		Short: "Price both tokens of a Uniswap pair or pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runPair,
	}
	pairCmd.Flags().String("version", "v2", "Uniswap version (v2, v3)")
	root.AddCommand(pairCmd)

	lookupCmd := &cobra.Command{
		Use:   "lookup <asset name>",
		Short: "Resolve an asset display name to its CoinGecko id",
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}
	root.AddCommand(lookupCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
