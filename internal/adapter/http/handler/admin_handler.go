package handler

import (
	"cross-chain-pool/internal/adapter/http/dto"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the access-gated administrative endpoints.
type AdminHandler struct {
	chains map[string]ChainServices
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(chains map[string]ChainServices) *AdminHandler {
	return &AdminHandler{chains: chains}
}

// SetRate handles PUT /api/v1/chains/:chain/admin/rate. Responder only.
func (h *AdminHandler) SetRate(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := svcs.AdminSvc.SetRate(c.Request.Context(), caller, req.Rate); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"rate": req.Rate})
}

// Pause handles POST /api/v1/chains/:chain/admin/pause. Owner only.
func (h *AdminHandler) Pause(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := svcs.AdminSvc.Pause(c.Request.Context(), caller); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paused": true})
}

// Unpause handles POST /api/v1/chains/:chain/admin/unpause. Owner only.
func (h *AdminHandler) Unpause(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := svcs.AdminSvc.Unpause(c.Request.Context(), caller); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paused": false})
}

// TransferOwnership handles POST /api/v1/chains/:chain/admin/transfer-ownership. Owner only.
func (h *AdminHandler) TransferOwnership(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := svcs.AdminSvc.TransferOwnership(c.Request.Context(), caller, domain.Address(req.NewOwner)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"owner": req.NewOwner})
}

// SetResponder handles POST /api/v1/chains/:chain/admin/set-responder. Owner only.
func (h *AdminHandler) SetResponder(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.SetResponderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := svcs.AdminSvc.SetResponder(c.Request.Context(), caller, domain.Address(req.NewResponder)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"responder": req.NewResponder})
}

// EmergencyWithdraw handles POST /api/v1/chains/:chain/admin/emergency-withdraw. Owner only.
func (h *AdminHandler) EmergencyWithdraw(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	withdrawn, err := svcs.AdminSvc.EmergencyWithdraw(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.EmergencyWithdrawResponse{Withdrawn: withdrawn})
}
