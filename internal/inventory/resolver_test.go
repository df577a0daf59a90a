package inventory

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Siddesh7/f-disperse/internal/alchemy"
	"github.com/Siddesh7/f-disperse/internal/coingecko"
	"github.com/Siddesh7/f-disperse/internal/evm"
)

const (
	usdcContract = "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"
	junkContract = "0x4444444444444444444444444444444444444444"
)

type mockBalances struct {
	balances    []alchemy.TokenBalance
	balancesErr error
	metadata    map[string]alchemy.TokenMetadata
	metadataErr map[string]error
}

func (m *mockBalances) TokenBalances(_ context.Context, _ common.Address) ([]alchemy.TokenBalance, error) {
	return m.balances, m.balancesErr
}

func (m *mockBalances) TokenMetadata(_ context.Context, contract string) (alchemy.TokenMetadata, error) {
	if err, ok := m.metadataErr[strings.ToLower(contract)]; ok {
		return alchemy.TokenMetadata{}, err
	}
	return m.metadata[strings.ToLower(contract)], nil
}

type mockListing struct {
	listings map[string]coingecko.Listing
	errs     map[string]error
}

func (m *mockListing) Lookup(_ context.Context, contract string) (coingecko.Listing, error) {
	if err, ok := m.errs[strings.ToLower(contract)]; ok {
		return coingecko.Listing{}, err
	}
	if l, ok := m.listings[strings.ToLower(contract)]; ok {
		return l, nil
	}
	return coingecko.Listing{}, coingecko.ErrNotListed
}

type mockNative struct {
	balance *big.Int
	err     error
}

func (m *mockNative) NativeBalance(_ context.Context, _ common.Address) (*big.Int, error) {
	return m.balance, m.err
}

type mockDecimals struct {
	decimals uint8
	err      error
	calls    int
}

func (m *mockDecimals) Decimals(_ context.Context, _ common.Address) (uint8, error) {
	m.calls++
	return m.decimals, m.err
}

func newTestResolver(b *mockBalances, l *mockListing, n *mockNative) *Resolver {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewResolver(logger, b, l, n, &mockDecimals{decimals: 18})
}

func TestFetch_NativeFirstAndFiltered(t *testing.T) {
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: usdcContract, TokenBalance: "0x0000000000000000000000000000000000000000000000000000000000989680"}, // 10 USDC
			{ContractAddress: junkContract, TokenBalance: "0x01"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin", Decimals: 6},
			junkContract: {Symbol: "JUNK", Name: "Junk", Decimals: 18},
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin", Logo: "https://example.com/usdc.png"},
		},
	}
	n := &mockNative{balance: big.NewInt(1500000000000000000)} // 1.5 ETH

	assets := newTestResolver(b, l, n).Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 2, "unlisted token must be dropped")
	require.True(t, assets[0].IsNative())
	require.Equal(t, "ETH", assets[0].Symbol)
	require.Equal(t, "1.5000", assets[0].Balance)
	require.Equal(t, "USDC", assets[1].Symbol)
	require.Equal(t, "10.0000", assets[1].Balance)
	require.Equal(t, 6, assets[1].Decimals)
}

func TestFetch_EmptyOnBalanceFailure(t *testing.T) {
	b := &mockBalances{balancesErr: errors.New("rpc down")}
	assets := newTestResolver(b, &mockListing{}, &mockNative{balance: big.NewInt(1)}).
		Fetch(context.Background(), common.Address{1})
	require.Empty(t, assets)
}

func TestFetch_NoListedTokens(t *testing.T) {
	// Scenario: the listing service knows none of the held tokens and the
	// native balance is zero. The inventory is just ETH at 0.
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: junkContract, TokenBalance: "0x05"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			junkContract: {Symbol: "JUNK", Name: "Junk", Decimals: 18},
		},
	}
	n := &mockNative{balance: big.NewInt(0)}

	assets := newTestResolver(b, &mockListing{}, n).Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 1)
	require.True(t, assets[0].IsNative())
	require.Equal(t, "0.0000", assets[0].Balance)
}

func TestFetch_ZeroBalanceTokensDropped(t *testing.T) {
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: usdcContract, TokenBalance: "0x0"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin", Decimals: 6},
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin"},
		},
	}

	assets := newTestResolver(b, l, &mockNative{balance: big.NewInt(0)}).
		Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 1)
	require.True(t, assets[0].IsNative())
}

func TestFetch_LookupFailuresAreIsolated(t *testing.T) {
	// One token's listing lookup blows up; the other still resolves.
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: junkContract, TokenBalance: "0x05"},
			{ContractAddress: usdcContract, TokenBalance: "0x0000000000000000000000000000000000000000000000000000000000989680"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin", Decimals: 6},
			junkContract: {Symbol: "JUNK", Name: "Junk", Decimals: 18},
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin"},
		},
		errs: map[string]error{
			junkContract: errors.New("listing service melted"),
		},
	}

	assets := newTestResolver(b, l, &mockNative{balance: big.NewInt(0)}).
		Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 2)
	require.Equal(t, "USDC", assets[1].Symbol)
}

func TestFetch_NativeBalanceFailureDegradesToZero(t *testing.T) {
	b := &mockBalances{balances: []alchemy.TokenBalance{}}
	n := &mockNative{err: errors.New("rpc down")}

	assets := newTestResolver(b, &mockListing{}, n).Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 1)
	require.Equal(t, "0.0000", assets[0].Balance)
}

func TestFetch_DecimalsFromChainWhenMetadataOmitsThem(t *testing.T) {
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: usdcContract, TokenBalance: "0x0000000000000000000000000000000000000000000000000000000000989680"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin"}, // no decimals
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin"},
		},
	}
	d := &mockDecimals{decimals: 6}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	resolver := NewResolver(logger, b, l, &mockNative{balance: big.NewInt(0)}, d)

	assets := resolver.Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 2)
	require.Equal(t, 6, assets[1].Decimals)
	require.Equal(t, "10.0000", assets[1].Balance)
	require.Equal(t, 1, d.calls)
}

func TestFetch_UnknownDecimalsDropsToken(t *testing.T) {
	// Metadata omits decimals and the on-chain read fails too. A guessed
	// scale would corrupt display and submission amounts, so the token
	// must be dropped like any other failed lookup.
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: usdcContract, TokenBalance: "0x0000000000000000000000000000000000000000000000000000000000989680"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin"}, // no decimals
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin"},
		},
	}
	d := &mockDecimals{err: errors.New("rpc down")}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	resolver := NewResolver(logger, b, l, &mockNative{balance: big.NewInt(0)}, d)

	assets := resolver.Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 1)
	require.True(t, assets[0].IsNative())
	require.Equal(t, 1, d.calls)
}

func TestFetch_DefaultLogoFallback(t *testing.T) {
	b := &mockBalances{
		balances: []alchemy.TokenBalance{
			{ContractAddress: usdcContract, TokenBalance: "0x01"},
		},
		metadata: map[string]alchemy.TokenMetadata{
			usdcContract: {Symbol: "usdc", Name: "USD Coin", Decimals: 6},
		},
	}
	l := &mockListing{
		listings: map[string]coingecko.Listing{
			usdcContract: {Symbol: "USDC", Name: "USD Coin"},
		},
	}

	assets := newTestResolver(b, l, &mockNative{balance: big.NewInt(0)}).
		Fetch(context.Background(), common.Address{1})

	require.Len(t, assets, 2)
	require.Equal(t, evm.DefaultLogoURL, assets[1].LogoURL)
}
