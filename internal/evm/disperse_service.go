package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a contract invocation ready for wallet submission.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

type DisperseService struct {
	contract common.Address
}

func NewDisperseService(contract common.Address) *DisperseService {
	return &DisperseService{contract: contract}
}

func (s *DisperseService) Contract() common.Address {
	return s.contract
}

// NativeCall builds disperseEther(recipients, amounts). The attached value
// is the sum of the per-recipient amounts, which the contract requires.
func (s *DisperseService) NativeCall(recipients []common.Address, amounts []*big.Int) (Call, error) {
	if err := validateBatch(recipients, amounts); err != nil {
		return Call{}, err
	}

	data, err := disperseABI.Pack("disperseEther", recipients, amounts)
	if err != nil {
		return Call{}, fmt.Errorf("failed to pack disperseEther: %w", err)
	}

	return Call{
		To:    s.contract,
		Value: SumAmounts(amounts),
		Data:  data,
	}, nil
}

// TokenCall builds disperseToken(token, recipients, amounts). The caller must
// have granted the contract an allowance of at least sum(amounts) beforehand.
func (s *DisperseService) TokenCall(token common.Address, recipients []common.Address, amounts []*big.Int) (Call, error) {
	if IsNative(token) {
		return Call{}, fmt.Errorf("token address cannot be the native sentinel")
	}
	if err := validateBatch(recipients, amounts); err != nil {
		return Call{}, err
	}

	data, err := disperseABI.Pack("disperseToken", token, recipients, amounts)
	if err != nil {
		return Call{}, fmt.Errorf("failed to pack disperseToken: %w", err)
	}

	return Call{
		To:    s.contract,
		Value: new(big.Int),
		Data:  data,
	}, nil
}

func validateBatch(recipients []common.Address, amounts []*big.Int) error {
	if len(recipients) == 0 {
		return fmt.Errorf("recipient list is empty")
	}
	if len(recipients) != len(amounts) {
		return fmt.Errorf("recipients/amounts length mismatch: %d != %d", len(recipients), len(amounts))
	}
	for i, a := range amounts {
		if a == nil || a.Sign() < 0 {
			return fmt.Errorf("invalid amount at index %d", i)
		}
	}
	return nil
}
