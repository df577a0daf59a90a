package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Network bundles the on-chain services for Base mainnet.
type Network struct {
	RPC      *ethclient.Client
	Balance  *BalanceService
	Decimals *DecimalsService
	Approve  *ApproveService
	Disperse *DisperseService
}

func NewNetwork(rpcURL string, disperseContract common.Address) (*Network, error) {
	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	if disperseContract == (common.Address{}) {
		disperseContract = DefaultDisperseContract
	}

	return &Network{
		RPC:      rpc,
		Balance:  NewBalanceService(rpc),
		Decimals: NewDecimalsService(rpc),
		Approve:  NewApproveService(rpc),
		Disperse: NewDisperseService(disperseContract),
	}, nil
}
