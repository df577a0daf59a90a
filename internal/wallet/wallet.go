package wallet

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Wallet is the session provider the orchestrator submits signed contract
// invocations through.
type Wallet interface {
	Connected() bool
	Address() common.Address
	SubmitTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)
}

// ErrRejected is returned when the signer declines a transaction.
var ErrRejected = errors.New("transaction rejected by user")

// userRejectedCode is the EIP-1193 "user rejected request" error code.
const userRejectedCode = 4001

// IsRejection classifies a submission error as a user rejection, as opposed
// to a transport or execution failure.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRejected) {
		return true
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == userRejectedCode {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "rejected")
}

// Disconnected is a wallet with no active session. Every submission fails.
type Disconnected struct{}

func (Disconnected) Connected() bool         { return false }
func (Disconnected) Address() common.Address { return common.Address{} }

func (Disconnected) SubmitTransaction(context.Context, common.Address, *big.Int, []byte) (common.Hash, error) {
	return common.Hash{}, errors.New("wallet is not connected")
}
