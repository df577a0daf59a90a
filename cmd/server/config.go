package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/Siddesh7/f-disperse/internal/api"
	"github.com/Siddesh7/f-disperse/internal/logging"
	"github.com/Siddesh7/f-disperse/internal/metrics"
)

type config struct {
	LogFormat logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`

	Server  api.Config
	Metrics metrics.Config

	RPCURL           string `envconfig:"RPC_URL" default:"https://mainnet.base.org"`
	DisperseContract string `envconfig:"DISPERSE_CONTRACT"`

	AlchemyURL   string `envconfig:"ALCHEMY_URL" required:"true"`
	CoinGeckoURL string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com"`
	NeynarURL    string `envconfig:"NEYNAR_URL" default:"https://api.neynar.com"`
	NeynarAPIKey string `envconfig:"NEYNAR_API_KEY" required:"true"`

	// PrivateKey signs submissions server-side. Without it the server runs
	// with a disconnected wallet: inventory and sessions stay empty.
	PrivateKey string `envconfig:"PRIVATE_KEY"`
}

func newConfig() (config, error) {
	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to process env var: %w", err)
	}
	return cfg, nil
}
