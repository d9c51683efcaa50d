package dto

import (
	"regexp"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/pkg/hashlock"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var addressRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.:]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_addr", validateAccountAddr)
		_ = v.RegisterValidation("hash_lock", validateHashLock)
	}
}

// validateAccountAddr allows alphanumeric, underscore, dash, dot, and colon,
// and rejects the pool's own custody account.
func validateAccountAddr(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !addressRe.MatchString(s) {
		return false
	}
	return domain.Address(s).Valid()
}

// validateHashLock requires a well-formed, non-zero 32-byte hex digest.
func validateHashLock(fl validator.FieldLevel) bool {
	return hashlock.ValidLock(fl.Field().String())
}
