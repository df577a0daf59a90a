package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Base mainnet is the only supported chain.
var ChainID = big.NewInt(8453)

// ZeroAddress is the sentinel for the chain's native asset.
var ZeroAddress = common.Address{}

const (
	NativeSymbol   = "ETH"
	NativeName     = "Ethereum"
	NativeDecimals = 18

	NativeLogoURL  = "https://cryptologos.cc/logos/ethereum-eth-logo.png"
	DefaultLogoURL = "https://cryptologos.cc/logos/default.png"
)

// DefaultDisperseContract is the MultiDisperse deployment on Base mainnet.
var DefaultDisperseContract = common.HexToAddress("0xBF6442be44d6e5Ca169AD4E4bD443327388B6641")

func IsNative(token common.Address) bool {
	return token == ZeroAddress
}
