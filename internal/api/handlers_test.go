package api

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Siddesh7/f-disperse/internal/disperse"
	"github.com/Siddesh7/f-disperse/internal/evm"
	"github.com/Siddesh7/f-disperse/internal/neynar"
	"github.com/Siddesh7/f-disperse/internal/wallet"
)

type stubIdentity struct{}

func (stubIdentity) UserByUsername(_ context.Context, username string) (neynar.User, error) {
	if username != "alice" {
		return neynar.User{}, neynar.ErrNotFound
	}
	return neynar.User{Verifications: []string{"0x2222222222222222222222222222222222222222"}}, nil
}

type stubInventory struct{}

func (stubInventory) Fetch(context.Context, common.Address) []evm.Asset {
	return []evm.Asset{{
		Symbol:   evm.NativeSymbol,
		Name:     evm.NativeName,
		Address:  evm.ZeroAddress,
		Decimals: evm.NativeDecimals,
		Balance:  "1.0000",
	}}
}

type stubAllowance struct{}

func (stubAllowance) HasAllowance(context.Context, common.Address, common.Address, common.Address, *big.Int) (bool, error) {
	return false, nil
}

type stubWallet struct{}

func (stubWallet) Connected() bool         { return true }
func (stubWallet) Address() common.Address { return common.HexToAddress("0x1111111111111111111111111111111111111111") }

func (stubWallet) SubmitTransaction(context.Context, common.Address, *big.Int, []byte) (common.Hash, error) {
	return common.HexToHash("0xdeadbeef"), nil
}

var _ wallet.Wallet = stubWallet{}

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	orch := disperse.NewOrchestrator(
		logger,
		stubWallet{},
		stubInventory{},
		stubIdentity{},
		stubAllowance{},
		evm.NewDisperseService(evm.DefaultDisperseContract),
	)
	return NewServer(Config{Port: 0}, orch, logger)
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListTokens(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/api/tokens", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), evm.NativeSymbol)
}

func TestAddRecipientStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{
			name:     "valid address",
			body:     `{"identifier":"0x2222222222222222222222222222222222222222","amount":"1"}`,
			expected: http.StatusCreated,
		},
		{
			name:     "resolvable username",
			body:     `{"identifier":"@alice","amount":"1"}`,
			expected: http.StatusCreated,
		},
		{
			name:     "malformed identifier",
			body:     `{"identifier":"not-an-address","amount":"1"}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown username",
			body:     `{"identifier":"@nobody","amount":"1"}`,
			expected: http.StatusUnprocessableEntity,
		},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/recipients", tt.body)
			require.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestRemoveRecipient(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodDelete, "/api/recipients/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodDelete, "/api/recipients/0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	do(s, http.MethodPost, "/api/recipients", `{"identifier":"0x2222222222222222222222222222222222222222"}`)
	rec = do(s, http.MethodDelete, "/api/recipients/0", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestApproveNativeRejected(t *testing.T) {
	s := newTestServer()
	do(s, http.MethodGet, "/api/tokens", "")
	do(s, http.MethodPost, "/api/recipients", `{"identifier":"0x2222222222222222222222222222222222222222","amount":"1"}`)

	rec := do(s, http.MethodPost, "/api/approve", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisperseFlow(t *testing.T) {
	s := newTestServer()
	do(s, http.MethodGet, "/api/tokens", "")
	do(s, http.MethodPost, "/api/recipients", `{"identifier":"0x2222222222222222222222222222222222222222","amount":"0.5"}`)

	rec := do(s, http.MethodPost, "/api/disperse", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "basescan.org/tx/")

	rec = do(s, http.MethodDelete, "/api/feedback", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
