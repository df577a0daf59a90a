package inventory

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Siddesh7/f-disperse/internal/alchemy"
	"github.com/Siddesh7/f-disperse/internal/coingecko"
	"github.com/Siddesh7/f-disperse/internal/evm"
	"github.com/Siddesh7/f-disperse/internal/metrics"
	"github.com/Siddesh7/f-disperse/internal/util"
)

const lookupConcurrency = 8

// BalanceProvider lists {contract, raw balance} pairs for an account and
// serves per-contract metadata.
type BalanceProvider interface {
	TokenBalances(ctx context.Context, owner common.Address) ([]alchemy.TokenBalance, error)
	TokenMetadata(ctx context.Context, contract string) (alchemy.TokenMetadata, error)
}

// ListingService answers whether a contract is a listed, identifiable token.
type ListingService interface {
	Lookup(ctx context.Context, contract string) (coingecko.Listing, error)
}

// NativeBalancer reads the account's native-coin balance.
type NativeBalancer interface {
	NativeBalance(ctx context.Context, address common.Address) (*big.Int, error)
}

// DecimalsReader reads token decimals from the chain, used when the indexer
// metadata omits them.
type DecimalsReader interface {
	Decimals(ctx context.Context, tokenAddress common.Address) (uint8, error)
}

type Resolver struct {
	logger   *logrus.Entry
	balances BalanceProvider
	listing  ListingService
	native   NativeBalancer
	decimals DecimalsReader
}

func NewResolver(
	logger *logrus.Logger,
	balances BalanceProvider,
	listing ListingService,
	native NativeBalancer,
	decimals DecimalsReader,
) *Resolver {
	return &Resolver{
		logger:   logger.WithField("pkg", "inventory.Resolver"),
		balances: balances,
		listing:  listing,
		native:   native,
		decimals: decimals,
	}
}

// Fetch produces the ordered inventory for an account: the native asset
// first (always present, balance possibly zero), then listed ERC-20 tokens
// with a positive balance. A failed balance fetch yields an empty inventory
// and a log line; per-token lookup failures drop that token only.
func (r *Resolver) Fetch(ctx context.Context, account common.Address) []evm.Asset {
	tokenBalances, err := r.balances.TokenBalances(ctx, account)
	if err != nil {
		r.logger.Errorf("failed to fetch token balances for %s: %v", account.Hex(), err)
		metrics.RecordInventoryRefresh("error", 0)
		return []evm.Asset{}
	}

	results := make([]*evm.Asset, len(tokenBalances))

	g := new(errgroup.Group)
	g.SetLimit(lookupConcurrency)

	for i, tb := range tokenBalances {
		g.Go(func() error {
			asset := r.resolveToken(ctx, tb)
			results[i] = asset
			return nil
		})
	}
	_ = g.Wait()

	assets := []evm.Asset{r.nativeAsset(ctx, account)}
	for _, a := range results {
		if a != nil {
			assets = append(assets, *a)
		}
	}

	metrics.RecordInventoryRefresh("ok", len(assets))
	return assets
}

// resolveToken returns nil when the token is unlisted, has no balance, or
// any of its lookups fail. One token's failure never aborts the others.
func (r *Resolver) resolveToken(ctx context.Context, tb alchemy.TokenBalance) *evm.Asset {
	balance, err := alchemy.ParseBalance(tb.TokenBalance)
	if err != nil {
		r.logger.Warnf("invalid balance for token %s: %v", tb.ContractAddress, err)
		return nil
	}
	if balance.Sign() <= 0 {
		return nil
	}

	md, err := r.balances.TokenMetadata(ctx, tb.ContractAddress)
	if err != nil {
		r.logger.Warnf("failed to fetch metadata for token %s: %v", tb.ContractAddress, err)
		return nil
	}

	listing, err := r.listing.Lookup(ctx, tb.ContractAddress)
	if err != nil {
		if errors.Is(err, coingecko.ErrNotListed) {
			r.logger.Debugf("token %s not listed, dropping", tb.ContractAddress)
		} else {
			r.logger.Warnf("failed to look up listing for token %s: %v", tb.ContractAddress, err)
		}
		return nil
	}

	decimals := md.Decimals
	if decimals == 0 {
		// Guessing a scale here would corrupt both the displayed balance
		// and any dispersed amounts, so an unknown scale drops the token.
		onchain, err := r.decimals.Decimals(ctx, common.HexToAddress(tb.ContractAddress))
		if err != nil {
			r.logger.Warnf("failed to fetch decimals for token %s, dropping: %v", tb.ContractAddress, err)
			return nil
		}
		decimals = int(onchain)
	}

	logo := listing.Logo
	if logo == "" {
		logo = evm.DefaultLogoURL
	}

	return &evm.Asset{
		Symbol:   listing.Symbol,
		Name:     listing.Name,
		Address:  common.HexToAddress(tb.ContractAddress),
		Decimals: decimals,
		Balance:  util.FormatBaseUnits(balance, decimals, 4),
		LogoURL:  logo,
	}
}

func (r *Resolver) nativeAsset(ctx context.Context, account common.Address) evm.Asset {
	balance, err := r.native.NativeBalance(ctx, account)
	if err != nil {
		r.logger.Errorf("failed to fetch native balance for %s: %v", account.Hex(), err)
		balance = new(big.Int)
	}

	return evm.Asset{
		Symbol:   evm.NativeSymbol,
		Name:     evm.NativeName,
		Address:  evm.ZeroAddress,
		Decimals: evm.NativeDecimals,
		Balance:  util.FormatBaseUnits(balance, evm.NativeDecimals, 4),
		LogoURL:  evm.NativeLogoURL,
	}
}
