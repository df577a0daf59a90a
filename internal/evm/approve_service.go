package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

type ApproveService struct {
	rpc *ethclient.Client
}

func NewApproveService(rpc *ethclient.Client) *ApproveService {
	return &ApproveService{rpc: rpc}
}

// Allowance reads the current ERC20 allowance granted by owner to spender.
func (a *ApproveService) Allowance(ctx context.Context, tokenAddress, owner, spender common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance: %w", err)
	}

	out, err := callReadonly(ctx, a.rpc, tokenAddress, data)
	if err != nil {
		return nil, fmt.Errorf("failed to check allowance: %w", err)
	}

	vals, err := erc20ABI.Unpack("allowance", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack allowance: %w", err)
	}

	allowance, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected allowance return type %T", vals[0])
	}
	return allowance, nil
}

// HasAllowance reports whether owner already granted spender at least amount.
func (a *ApproveService) HasAllowance(ctx context.Context, tokenAddress, owner, spender common.Address, amount *big.Int) (bool, error) {
	current, err := a.Allowance(ctx, tokenAddress, owner, spender)
	if err != nil {
		return false, err
	}
	return current.Cmp(amount) >= 0, nil
}

// ApproveCalldata builds the approve(spender, amount) payload.
func ApproveCalldata(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve: %w", err)
	}
	return data, nil
}
