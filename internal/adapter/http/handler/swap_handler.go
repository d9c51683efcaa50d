package handler

import (
	"cross-chain-pool/internal/adapter/http/dto"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/response"

	"github.com/gin-gonic/gin"
)

// SwapHandler handles the sender-side swap state machine endpoints.
type SwapHandler struct {
	chains map[string]ChainServices
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(chains map[string]ChainServices) *SwapHandler {
	return &SwapHandler{chains: chains}
}

// Initiate handles POST /api/v1/chains/:chain/swaps.
func (h *SwapHandler) Initiate(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.InitiateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := svcs.SwapSvc.Initiate(c.Request.Context(), ports.InitiateRequest{
		Sender:         domain.Address(req.Sender),
		Recipient:      domain.Address(req.Recipient),
		Amount:         req.Amount,
		TimeLockBlocks: req.TimeLockBlocks,
		HashLock:       req.HashLock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := toSwapResponse(c.Param("chain"), result.Swap, domain.SwapStatusOpen, false)
	resp.Secret = result.Secret
	response.Created(c, resp)
}

// Complete handles POST /api/v1/chains/:chain/swaps/:id/complete.
func (h *SwapHandler) Complete(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.CompleteSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	swap, err := svcs.SwapSvc.Complete(c.Request.Context(), c.Param("id"), req.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSwapResponse(c.Param("chain"), swap, domain.SwapStatusCompleted, false))
}

// Refund handles POST /api/v1/chains/:chain/swaps/:id/refund.
func (h *SwapHandler) Refund(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.RefundSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	swap, err := svcs.SwapSvc.Refund(c.Request.Context(), c.Param("id"), domain.Address(req.Caller))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSwapResponse(c.Param("chain"), swap, domain.SwapStatusRefunded, false))
}

// Link handles POST /api/v1/chains/:chain/swaps/:id/link. Responder only.
func (h *SwapHandler) Link(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.LinkSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	swap, err := svcs.SwapSvc.Link(c.Request.Context(), ports.LinkRequest{
		Caller:        caller,
		SwapID:        c.Param("id"),
		HashLock:      req.HashLock,
		LockRecipient: domain.Address(req.LockRecipient),
		LockAmount:    req.LockAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSwapResponse(c.Param("chain"), swap, domain.SwapStatusOpen, false))
}

// Get handles GET /api/v1/chains/:chain/swaps/:id.
func (h *SwapHandler) Get(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	view, err := svcs.SwapSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSwapResponse(c.Param("chain"), view.Swap, view.Status, view.Expired))
}

// Active handles GET /api/v1/chains/:chain/swaps.
func (h *SwapHandler) Active(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	views, err := svcs.SwapSvc.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.SwapResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toSwapResponse(c.Param("chain"), v.Swap, v.Status, v.Expired))
	}

	response.OK(c, dto.SwapListResponse{Items: items, Total: len(items)})
}

// toSwapResponse converts a domain swap to its DTO.
func toSwapResponse(chain string, s *domain.Swap, status domain.SwapStatus, expired bool) dto.SwapResponse {
	return dto.SwapResponse{
		SwapID:    s.ID,
		Chain:     chain,
		Sender:    string(s.Sender),
		Recipient: string(s.Recipient),
		Amount:    s.Amount,
		HashLock:  s.HashLock,
		TimeLock:  s.TimeLock,
		Status:    string(status),
		Expired:   expired,
		Linked:    s.Linked,
	}
}
