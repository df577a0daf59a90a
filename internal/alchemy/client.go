package alchemy

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Siddesh7/f-disperse/internal/httpx"
)

// Client talks to the Alchemy enhanced JSON-RPC API, which serves as the
// balance/metadata provider for the connected account.
type Client struct {
	url string
}

// NewClient takes the full endpoint URL, API key included.
func NewClient(url string) *Client {
	return &Client{url: url}
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse[T any] struct {
	Result T         `json:"result"`
	Error  *rpcError `json:"error"`
}

// TokenBalance is one {contract, raw balance} pair. Balance is the
// hex-encoded 256-bit value Alchemy returns.
type TokenBalance struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
}

type tokenBalancesResult struct {
	Address       string         `json:"address"`
	TokenBalances []TokenBalance `json:"tokenBalances"`
}

// TokenMetadata is the per-contract metadata record.
type TokenMetadata struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Logo     string `json:"logo"`
}

func (c *Client) TokenBalances(ctx context.Context, owner common.Address) ([]TokenBalance, error) {
	res, err := call[tokenBalancesResult](ctx, c, "alchemy_getTokenBalances", []any{owner.Hex(), "erc20"})
	if err != nil {
		return nil, fmt.Errorf("failed to get token balances: %w", err)
	}
	return res.TokenBalances, nil
}

func (c *Client) TokenMetadata(ctx context.Context, contract string) (TokenMetadata, error) {
	res, err := call[TokenMetadata](ctx, c, "alchemy_getTokenMetadata", []any{contract})
	if err != nil {
		return TokenMetadata{}, fmt.Errorf("failed to get token metadata: %w", err)
	}
	return res, nil
}

func call[T any](ctx context.Context, c *Client, method string, params []any) (T, error) {
	var zero T

	res, err := httpx.Call[rpcResponse[T]](
		ctx,
		http.MethodPost,
		c.url,
		nil,
		rpcRequest{
			Jsonrpc: "2.0",
			Method:  method,
			Params:  params,
			ID:      1,
		},
		nil,
	)
	if err != nil {
		return zero, err
	}
	if res.Error != nil {
		return zero, fmt.Errorf("rpc error %d: %s", res.Error.Code, res.Error.Message)
	}

	return res.Result, nil
}

// ParseBalance decodes the zero-padded hex balance Alchemy returns.
func ParseBalance(hexBalance string) (*big.Int, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(hexBalance, "0x"), "0X")
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex balance: %s", hexBalance)
	}
	return v, nil
}
