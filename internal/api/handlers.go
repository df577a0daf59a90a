package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/Siddesh7/f-disperse/internal/disperse"
)

const txExplorerBase = "https://basescan.org/tx/"

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	Session     disperse.Session `json:"session"`
	ExplorerURL string           `json:"explorer_url,omitempty"`
}

func newSessionResponse(session disperse.Session) sessionResponse {
	resp := sessionResponse{Session: session}
	if session.TxHash != "" {
		resp.ExplorerURL = txExplorerBase + session.TxHash
	}
	return resp
}

// statusFor maps orchestrator error classes to HTTP statuses: bad input and
// unmet preconditions are the caller's fault, a failed username lookup is an
// unprocessable identifier, anything else is an upstream failure.
func statusFor(err error) int {
	switch {
	case disperse.IsValidation(err) || disperse.IsPrecondition(err):
		return http.StatusBadRequest
	case errors.Is(err, disperse.ErrUnresolvable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusBadGateway {
		s.logger.WithError(err).Error("request failed upstream")
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTokens(c echo.Context) error {
	assets := s.orch.RefreshInventory(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"tokens": assets})
}

func (s *Server) getSession(c echo.Context) error {
	return c.JSON(http.StatusOK, s.orch.View())
}

type addRecipientRequest struct {
	Identifier string `json:"identifier"`
	Amount     string `json:"amount"`
}

func (s *Server) addRecipient(c echo.Context) error {
	var req addRecipientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	recipient, err := s.orch.AddRecipient(c.Request().Context(), req.Identifier, req.Amount)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, recipient)
}

func (s *Server) removeRecipient(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
	}

	if err := s.orch.RemoveRecipient(index); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setAllocationRequest struct {
	Equal bool   `json:"equal"`
	Total string `json:"total"`
}

func (s *Server) setAllocation(c echo.Context) error {
	var req setAllocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.orch.SetAllocation(req.Equal, req.Total); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.orch.View())
}

type selectTokenRequest struct {
	Address string `json:"address"`
}

func (s *Server) selectToken(c echo.Context) error {
	var req selectTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if !common.IsHexAddress(req.Address) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid token address"})
	}

	if err := s.orch.SelectAsset(common.HexToAddress(req.Address)); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.orch.View())
}

func (s *Server) approve(c echo.Context) error {
	session, err := s.orch.Approve(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}

func (s *Server) disperse(c echo.Context) error {
	session, err := s.orch.Disperse(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}

func (s *Server) dismissFeedback(c echo.Context) error {
	s.orch.DismissFeedback()
	return c.NoContent(http.StatusNoContent)
}
