package evm

import (
	"context"
	"fmt"
	"math/big"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

type BalanceService struct {
	rpc *ethclient.Client
}

func NewBalanceService(rpc *ethclient.Client) *BalanceService {
	return &BalanceService{rpc: rpc}
}

func (s *BalanceService) NativeBalance(ctx context.Context, address ecommon.Address) (*big.Int, error) {
	balance, err := s.rpc.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get native balance: %w", err)
	}
	return balance, nil
}

func (s *BalanceService) ERC20Balance(ctx context.Context, tokenAddress, ownerAddress ecommon.Address) (*big.Int, error) {
	if IsNative(tokenAddress) {
		return s.NativeBalance(ctx, ownerAddress)
	}

	data, err := erc20ABI.Pack("balanceOf", ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	out, err := callReadonly(ctx, s.rpc, tokenAddress, data)
	if err != nil {
		return nil, fmt.Errorf("failed to get ERC20 balance: %w", err)
	}

	vals, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf: %w", err)
	}

	balance, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf return type %T", vals[0])
	}
	return balance, nil
}
