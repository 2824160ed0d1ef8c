package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
	"autovista-backend/shared/utils/query"
)

// AuditEntryResponse represents one authentication attempt in the response
type AuditEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	IPAddress       string    `json:"ip_address"`
	DeviceInfo      string    `json:"device_info"`
	FingerprintHash string    `json:"fingerprint_hash"`
	Successful      bool      `json:"successful"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	TOTPUsed        bool      `json:"totp_used"`
	DeviceTrusted   bool      `json:"device_trusted"`
	CreatedAt       time.Time `json:"created_at"`
}

// AuditListResponse represents a page of audit entries
type AuditListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items      []AuditEntryResponse     `json:"items"`
		Pagination query.PaginationResponse `json:"pagination"`
	} `json:"data"`
}

// GetAuditLog retrieves the authentication audit trail for the
// authenticated user
// @Summary Get authentication audit log
// @Description Get the authentication attempt history for the currently authenticated user
// @Tags security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[successful] query boolean false "Filter by attempt outcome"
// @Param filters[from_date] query string false "Filter by date from (YYYY-MM-DD)"
// @Param filters[to_date] query string false "Filter by date to (YYYY-MM-DD)"
// @Param sort[field] query string false "Sort field (created_at, successful)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Success 200 {object} handlers.AuditListResponse "Audit entry list"
// @Failure 401 {object} map[string]string "User not authenticated"
// @Failure 500 {object} map[string]string "Failed to retrieve audit log"
// @Router /security/audit-log [get]
func (h *SecurityHandler) GetAuditLog(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"successful": "successful",
	}

	allowedSortFields := map[string]string{
		"created_at": "created_at",
		"successful": "successful",
	}

	dbQuery := h.db.Model(&auth.AuditLog{}).Where("user_id = ?", userID)
	dbQuery = query.ApplyDateRange(dbQuery, "created_at",
		c.Query("filters[from_date]"), c.Query("filters[to_date]"))
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count audit entries"})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var entries []auth.AuditLog
	if err := dbQuery.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log"})
		return
	}

	var response []AuditEntryResponse
	for _, entry := range entries {
		response = append(response, AuditEntryResponse{
			ID:              entry.ID,
			IPAddress:       entry.IPAddress,
			DeviceInfo:      parseUserAgent(entry.UserAgent),
			FingerprintHash: entry.FingerprintHash,
			Successful:      entry.Successful,
			FailureReason:   entry.FailureReason,
			TOTPUsed:        entry.TOTPUsed,
			DeviceTrusted:   entry.DeviceTrusted,
			CreatedAt:       entry.CreatedAt,
		})
	}

	paginationResponse := query.BuildPaginationResponse(params.Page, params.Limit, total)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      response,
			"pagination": paginationResponse,
		},
	})
}

// parseUserAgent extracts useful device info from user agent string
func parseUserAgent(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	if strings.Contains(userAgent, "iPhone") || strings.Contains(userAgent, "iPad") {
		return "iOS Device"
	} else if strings.Contains(userAgent, "Android") {
		return "Android Device"
	} else if strings.Contains(userAgent, "Windows") {
		return "Windows"
	} else if strings.Contains(userAgent, "Mac") {
		return "MacOS"
	} else if strings.Contains(userAgent, "Linux") {
		return "Linux"
	}

	return "Other"
}
