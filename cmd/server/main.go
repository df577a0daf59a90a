package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/Siddesh7/f-disperse/internal/alchemy"
	"github.com/Siddesh7/f-disperse/internal/api"
	"github.com/Siddesh7/f-disperse/internal/coingecko"
	"github.com/Siddesh7/f-disperse/internal/disperse"
	"github.com/Siddesh7/f-disperse/internal/evm"
	"github.com/Siddesh7/f-disperse/internal/graceful"
	"github.com/Siddesh7/f-disperse/internal/inventory"
	"github.com/Siddesh7/f-disperse/internal/logging"
	"github.com/Siddesh7/f-disperse/internal/metrics"
	"github.com/Siddesh7/f-disperse/internal/neynar"
	"github.com/Siddesh7/f-disperse/internal/wallet"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := newConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogFormat)

	metricsServer := metrics.StartMetricsServer(cfg.Metrics, []string{
		metrics.ServiceHTTP,
		metrics.ServiceOrchestrator,
		metrics.ServiceInventory,
	}, logger)
	defer func() {
		if metricsServer != nil {
			if err := metricsServer.Stop(ctx); err != nil {
				logger.Errorf("failed to stop metrics server: %v", err)
			}
		}
	}()

	network, err := evm.NewNetwork(cfg.RPCURL, common.HexToAddress(cfg.DisperseContract))
	if err != nil {
		logger.Fatalf("failed to initialize network: %v", err)
	}

	var signer wallet.Wallet = wallet.Disconnected{}
	if cfg.PrivateKey != "" {
		signer, err = wallet.NewKeyWallet(network.RPC, evm.ChainID, cfg.PrivateKey)
		if err != nil {
			logger.Fatalf("failed to initialize wallet: %v", err)
		}
	} else {
		logger.Warn("no private key configured, running with a disconnected wallet")
	}

	resolver := inventory.NewResolver(
		logger,
		alchemy.NewClient(cfg.AlchemyURL),
		coingecko.NewClient(cfg.CoinGeckoURL),
		network.Balance,
		network.Decimals,
	)

	orchestrator := disperse.NewOrchestrator(
		logger,
		signer,
		resolver,
		neynar.NewClient(cfg.NeynarURL, cfg.NeynarAPIKey),
		network.Approve,
		network.Disperse,
	)

	server := api.NewServer(cfg.Server, orchestrator, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("failed to run API server: %v", err)
		}
	}()

	graceful.Wait(logger)
	if err := server.Stop(ctx); err != nil {
		logger.Errorf("failed to stop API server: %v", err)
	}
}
