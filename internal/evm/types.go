package evm

import "github.com/ethereum/go-ethereum/common"

// Asset is a transferable token held by the connected account.
// The set is replaced wholesale on every inventory refresh.
type Asset struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Address  common.Address `json:"address"`
	Decimals int            `json:"decimals"`
	Balance  string         `json:"balance"`
	LogoURL  string         `json:"logo"`
}

func (a Asset) IsNative() bool {
	return IsNative(a.Address)
}
