package handler

import (
	"cross-chain-pool/internal/adapter/http/dto"
	"cross-chain-pool/internal/adapter/http/middleware"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
	"cross-chain-pool/pkg/response"

	"github.com/gin-gonic/gin"
)

// ChainServices bundles the per-chain service set one route group operates on.
type ChainServices struct {
	PoolSvc  ports.PoolService
	SwapSvc  ports.SwapService
	LockSvc  ports.LockService
	AdminSvc ports.AdminService
}

// resolveChain looks up the service set for the :chain path parameter. On an
// unknown chain it writes the error response and returns false.
func resolveChain(c *gin.Context, chains map[string]ChainServices) (ChainServices, bool) {
	name := c.Param("chain")
	svcs, ok := chains[name]
	if !ok {
		response.Error(c, apperror.ErrNotFound("chain"))
		return ChainServices{}, false
	}
	return svcs, true
}

// callerAddress extracts the authenticated operator address set by JWTAuth.
func callerAddress(c *gin.Context) (domain.Address, bool) {
	v, exists := c.Get(middleware.CtxAddress)
	if !exists {
		response.Error(c, apperror.ErrInvalidToken())
		return "", false
	}
	addr, ok := v.(domain.Address)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return "", false
	}
	return addr, true
}

// PoolHandler handles balance ledger and rate conversion endpoints.
type PoolHandler struct {
	chains map[string]ChainServices
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(chains map[string]ChainServices) *PoolHandler {
	return &PoolHandler{chains: chains}
}

// Info handles GET /api/v1/chains/:chain.
func (h *PoolHandler) Info(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	info, err := svcs.AdminSvc.Info(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// Deposit handles POST /api/v1/chains/:chain/pool/deposit.
func (h *PoolHandler) Deposit(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := svcs.PoolSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		Account:      domain.Address(req.Account),
		NativeAmount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConversionResponse{
		NativeAmount: result.NativeAmount,
		Units:        result.Units,
		Rate:         result.Rate,
	})
}

// Withdraw handles POST /api/v1/chains/:chain/pool/withdraw.
func (h *PoolHandler) Withdraw(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := svcs.PoolSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		Account: domain.Address(req.Account),
		Units:   req.Units,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConversionResponse{
		NativeAmount: result.NativeAmount,
		Units:        result.Units,
		Rate:         result.Rate,
	})
}

// Balance handles GET /api/v1/chains/:chain/balances/:account.
func (h *PoolHandler) Balance(c *gin.Context) {
	svcs, ok := resolveChain(c, h.chains)
	if !ok {
		return
	}

	account := domain.Address(c.Param("account"))
	if !account.Valid() {
		response.Error(c, apperror.Validation("invalid account address"))
		return
	}

	balance, err := svcs.PoolSvc.BalanceOf(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Account: string(account),
		Balance: balance,
	})
}
