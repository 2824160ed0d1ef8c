package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"autovista-backend/shared/security"
	utils "autovista-backend/shared/utils/auth"
)

// SecurityHandler exposes the three-factor core to the admin web layer.
type SecurityHandler struct {
	db            *gorm.DB
	authenticator *security.Authenticator
}

// NewSecurityHandler creates a security handler over the given
// authenticator
func NewSecurityHandler(db *gorm.DB, authenticator *security.Authenticator) *SecurityHandler {
	return &SecurityHandler{db: db, authenticator: authenticator}
}

// TOTP setup Request/Response structs
type SetupTOTPRequest struct {
	AccountLabel string `json:"account_label" example:"admin@autovista.com"`
}

type SetupTOTPResponse struct {
	Secret          string `json:"secret" example:"JBSWY3DPEHPK3PXP"`
	ProvisioningURI string `json:"provisioning_uri" example:"otpauth://totp/AutoVista%20Admin:admin@autovista.com?..."`
}

// TOTP verify Request struct
type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required" example:"123456"`
}

// Authenticate Request/Response structs
type AuthenticateRequest struct {
	UserID      uuid.UUID                  `json:"user_id" binding:"required"`
	TOTPCode    string                     `json:"totp_code"`
	Fingerprint security.DeviceFingerprint `json:"fingerprint"`
}

type AuthenticateResponse struct {
	Admitted               bool   `json:"admitted"`
	Reason                 string `json:"reason,omitempty"`
	LockedRemainingMinutes int    `json:"locked_remaining_minutes,omitempty"`
	FirstDevice            bool   `json:"first_device,omitempty"`
}

// POST /api/security/totp/setup
// @Summary Set up TOTP
// @Description Generate a TOTP secret and provisioning URI for the authenticated user
// @Tags security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param setup body SetupTOTPRequest true "Setup parameters"
// @Success 200 {object} handlers.SetupTOTPResponse "Secret and provisioning URI"
// @Failure 400 {object} map[string]string "Invalid account label"
// @Failure 401 {object} map[string]string "User not authenticated"
// @Failure 503 {object} map[string]string "Security store unavailable"
// @Router /security/totp/setup [post]
func (h *SecurityHandler) SetupTOTP(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SetupTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Default the provisioning label to the caller's email
	if req.AccountLabel == "" {
		if email, ok := c.Get("userEmail"); ok {
			req.AccountLabel = email.(string)
		}
	}

	if err := utils.ValidateAccountLabel(req.AccountLabel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authenticator.SetupTOTP(c.Request.Context(), userID.(uuid.UUID), req.AccountLabel)
	if err != nil {
		if errors.Is(err, security.ErrStorageFailure) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Security store unavailable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SetupTOTPResponse{
		Secret:          result.Secret,
		ProvisioningURI: result.ProvisioningURI,
	})
}

// POST /api/security/totp/verify
// @Summary Verify and enable TOTP
// @Description Activate the TOTP factor by proving possession of the provisioned secret
// @Tags security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param verify body VerifyTOTPRequest true "TOTP code"
// @Success 200 {object} map[string]bool "Factor activated"
// @Failure 400 {object} map[string]string "Malformed code or TOTP not set up"
// @Failure 401 {object} map[string]string "Wrong code"
// @Failure 503 {object} map[string]string "Security store unavailable"
// @Router /security/totp/verify [post]
func (h *SecurityHandler) VerifyTOTP(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateTOTPCode(req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verified, err := h.authenticator.VerifyAndEnableTOTP(c.Request.Context(), userID.(uuid.UUID), req.Code)
	if err != nil {
		if errors.Is(err, security.ErrFactorNotConfigured) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "TOTP has not been set up for this account"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Security store unavailable"})
		return
	}

	if !verified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// POST /api/security/authenticate
// @Summary Run the three-factor admission decision
// @Description Called by the identity provider's login handler after the password check; decides admission from lockout state, device trust and TOTP
// @Tags security
// @Accept json
// @Produce json
// @Param attempt body AuthenticateRequest true "Login attempt"
// @Success 200 {object} handlers.AuthenticateResponse "Admitted"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} handlers.AuthenticateResponse "Denied with reason"
// @Failure 429 {object} map[string]string "Too many authentication attempts"
// @Failure 503 {object} handlers.AuthenticateResponse "Security store unavailable (fail-closed)"
// @Router /security/authenticate [post]
func (h *SecurityHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TOTPCode != "" {
		if err := utils.ValidateTOTPCode(req.TOTPCode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	decision, err := h.authenticator.Authenticate(c.Request.Context(), security.AuthRequest{
		UserID:      req.UserID,
		TOTPCode:    req.TOTPCode,
		Fingerprint: req.Fingerprint,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})
	if err != nil {
		// Fail-closed: uncertainty about the store never admits.
		c.JSON(http.StatusServiceUnavailable, AuthenticateResponse{
			Admitted: false,
			Reason:   string(security.ReasonStorageFailure),
		})
		return
	}

	if !decision.Admitted {
		c.JSON(http.StatusUnauthorized, AuthenticateResponse{
			Admitted:               false,
			Reason:                 string(decision.Reason),
			LockedRemainingMinutes: decision.LockedRemainingMinutes,
		})
		return
	}

	c.JSON(http.StatusOK, AuthenticateResponse{
		Admitted:    true,
		FirstDevice: decision.FirstDevice,
	})
}
