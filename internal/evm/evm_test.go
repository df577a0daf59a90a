package evm

import (
	"math/big"
	"testing"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestIsNative(t *testing.T) {
	require.True(t, IsNative(ZeroAddress))
	require.False(t, IsNative(ecommon.HexToAddress("0x1111111111111111111111111111111111111111")))
}

func TestApproveCalldata(t *testing.T) {
	spender := ecommon.HexToAddress("0x2222222222222222222222222222222222222222")
	data, err := ApproveCalldata(spender, big.NewInt(1000))
	require.NoError(t, err)

	// approve(address,uint256)
	require.Equal(t, "0x095ea7b3", hexutil.Encode(data[:4]))
	// two 32-byte args after the selector
	require.Len(t, data, 4+32+32)
}

func TestSumAmounts(t *testing.T) {
	require.Equal(t, "0", SumAmounts(nil).String())
	require.Equal(t, "60", SumAmounts([]*big.Int{
		big.NewInt(10), big.NewInt(20), big.NewInt(30),
	}).String())
}

func TestDisperseService_NativeCall(t *testing.T) {
	svc := NewDisperseService(DefaultDisperseContract)
	recipients := []ecommon.Address{
		ecommon.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		ecommon.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	}
	amounts := []*big.Int{big.NewInt(5), big.NewInt(7)}

	call, err := svc.NativeCall(recipients, amounts)
	require.NoError(t, err)
	require.Equal(t, DefaultDisperseContract, call.To)
	require.Equal(t, "12", call.Value.String(), "value must equal sum(amounts)")
	// disperseEther(address[],uint256[])
	require.Equal(t, "0xe63d38ed", hexutil.Encode(call.Data[:4]))
}

func TestDisperseService_TokenCall(t *testing.T) {
	svc := NewDisperseService(DefaultDisperseContract)
	token := ecommon.HexToAddress("0x3333333333333333333333333333333333333333")
	recipients := []ecommon.Address{ecommon.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")}
	amounts := []*big.Int{big.NewInt(5)}

	call, err := svc.TokenCall(token, recipients, amounts)
	require.NoError(t, err)
	require.Equal(t, "0", call.Value.String(), "token disperse sends no value")
	// disperseToken(address,address[],uint256[])
	require.Equal(t, "0xc73a2d60", hexutil.Encode(call.Data[:4]))
}

func TestDisperseService_Validation(t *testing.T) {
	svc := NewDisperseService(DefaultDisperseContract)
	addr := ecommon.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	t.Run("empty recipients", func(t *testing.T) {
		_, err := svc.NativeCall(nil, nil)
		require.Error(t, err)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := svc.NativeCall([]ecommon.Address{addr}, []*big.Int{big.NewInt(1), big.NewInt(2)})
		require.Error(t, err)
	})

	t.Run("nil amount", func(t *testing.T) {
		_, err := svc.NativeCall([]ecommon.Address{addr}, []*big.Int{nil})
		require.Error(t, err)
	})

	t.Run("native sentinel rejected as token", func(t *testing.T) {
		_, err := svc.TokenCall(ZeroAddress, []ecommon.Address{addr}, []*big.Int{big.NewInt(1)})
		require.Error(t, err)
	})
}
