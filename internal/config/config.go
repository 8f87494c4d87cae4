package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"priceScope/internal/coingecko"
	"priceScope/internal/model"
	"priceScope/internal/registry"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Registry     string
	CoinGeckoURL string
	UniswapV2URL string
	UniswapV3URL string
	HTTPTimeout  time.Duration
	Currency     string
	AMMVersion   string
	Platform     string
	Out          string
	PGDSN        string
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
// A .env file in the working directory is read into the environment first.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRICER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("registry", registry.DefaultPath)
	v.SetDefault("coingecko-url", coingecko.DefaultBaseURL)
	v.SetDefault("uniswap-v2-url", model.DefaultUniswapV2URL)
	v.SetDefault("uniswap-v3-url", model.DefaultUniswapV3URL)
	v.SetDefault("http-timeout", 15*time.Second)
	v.SetDefault("currency", "usd")
	v.SetDefault("version", "v2")
	v.SetDefault("platform", coingecko.DefaultPlatform)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Registry:     v.GetString("registry"),
		CoinGeckoURL: v.GetString("coingecko-url"),
		UniswapV2URL: v.GetString("uniswap-v2-url"),
		UniswapV3URL: v.GetString("uniswap-v3-url"),
		HTTPTimeout:  v.GetDuration("http-timeout"),
		Currency:     v.GetString("currency"),
		AMMVersion:   v.GetString("version"),
		Platform:     v.GetString("platform"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
