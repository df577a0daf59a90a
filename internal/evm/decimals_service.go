package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

type DecimalsService struct {
	rpc *ethclient.Client
}

func NewDecimalsService(rpc *ethclient.Client) *DecimalsService {
	return &DecimalsService{rpc: rpc}
}

// Decimals fetches the decimals for an ERC20 token.
func (d *DecimalsService) Decimals(ctx context.Context, tokenAddress common.Address) (uint8, error) {
	if IsNative(tokenAddress) {
		return NativeDecimals, nil
	}

	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals: %w", err)
	}

	out, err := callReadonly(ctx, d.rpc, tokenAddress, data)
	if err != nil {
		return 0, fmt.Errorf("failed to get decimals for token %s: %w", tokenAddress.Hex(), err)
	}

	vals, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals: %w", err)
	}

	decimals, ok := vals[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals return type %T", vals[0])
	}
	return decimals, nil
}
