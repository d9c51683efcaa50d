package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful administrative
// writes. It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var actor domain.Address
		if addr, exists := c.Get(CtxAddress); exists {
			if a, ok := addr.(domain.Address); ok {
				actor = a
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditEntry{
			ID:        uuid.New(),
			Chain:     c.Param("chain"),
			Actor:     actor,
			Action:    action,
			Details:   string(details),
			IPAddress: c.ClientIP(),
			CreatedAt: time.Now(),
		})
	}
}

func mapPathToAction(path, method string) domain.AdminAction {
	if path == "/api/v1/auth/login" && method == "POST" {
		return domain.AdminActionLogin
	}
	switch {
	case strings.HasSuffix(path, "/admin/rate") && method == "PUT":
		return domain.AdminActionSetRate
	case strings.HasSuffix(path, "/admin/pause") && method == "POST":
		return domain.AdminActionPause
	case strings.HasSuffix(path, "/admin/unpause") && method == "POST":
		return domain.AdminActionUnpause
	case strings.HasSuffix(path, "/admin/transfer-ownership") && method == "POST":
		return domain.AdminActionTransferOwnership
	case strings.HasSuffix(path, "/admin/set-responder") && method == "POST":
		return domain.AdminActionSetResponder
	case strings.HasSuffix(path, "/admin/emergency-withdraw") && method == "POST":
		return domain.AdminActionEmergencyWithdraw
	}
	return ""
}
