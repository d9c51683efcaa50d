package handler

import (
	"cross-chain-pool/internal/adapter/http/dto"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/response"

	"github.com/gin-gonic/gin"
)

// LockHandler handles the counterparty-side lock state machine endpoints.
type LockHandler struct {
	chains map[string]ChainServices
}

// NewLockHandler creates a new LockHandler.
func NewLockHandler(chains map[string]ChainServices) *LockHandler {
	return &LockHandler{chains: chains}
}

// Respond handles POST /api/v1/chains/:chain/locks. Responder only.
func (h *LockHandler) Respond(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.RespondLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	lock, err := svcs.LockSvc.Respond(c.Request.Context(), ports.RespondRequest{
		Caller:         caller,
		HashLock:       req.HashLock,
		Recipient:      domain.Address(req.Recipient),
		Amount:         req.Amount,
		TimeLockBlocks: req.TimeLockBlocks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toLockResponse(c.Param("chain"), lock, domain.SwapStatusOpen, false))
}

// Complete handles POST /api/v1/chains/:chain/locks/:hashLock/complete.
// Callable by anyone holding the correct secret.
func (h *LockHandler) Complete(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.CompleteLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	lock, err := svcs.LockSvc.Complete(c.Request.Context(), c.Param("hashLock"), req.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toLockResponse(c.Param("chain"), lock, domain.SwapStatusCompleted, false))
}

// Refund handles POST /api/v1/chains/:chain/locks/:hashLock/refund. Responder only.
func (h *LockHandler) Refund(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	lock, err := svcs.LockSvc.Refund(c.Request.Context(), c.Param("hashLock"), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toLockResponse(c.Param("chain"), lock, domain.SwapStatusRefunded, false))
}

// Get handles GET /api/v1/chains/:chain/locks/:hashLock.
func (h *LockHandler) Get(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	view, err := svcs.LockSvc.Get(c.Request.Context(), c.Param("hashLock"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toLockResponse(c.Param("chain"), view.Lock, view.Status, view.Expired))
}

// toLockResponse converts a domain lock to its DTO.
func toLockResponse(chain string, l *domain.Lock, status domain.SwapStatus, expired bool) dto.LockResponse {
	return dto.LockResponse{
		HashLock:  l.HashLock,
		Chain:     chain,
		Recipient: string(l.Recipient),
		Amount:    l.Amount,
		TimeLock:  l.TimeLock,
		Status:    string(status),
		Expired:   expired,
	}
}
