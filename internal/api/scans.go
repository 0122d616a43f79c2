package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	apperrors "pawrate_go_backend/internal/errors"
	"pawrate_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type attachImageRequest struct {
	Image string `json:"image" binding:"required"`
}

type scanRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// parseDataURI accepts either a data URI ("data:image/png;base64,...")
// or bare base64, in which case JPEG is assumed.
func parseDataURI(encoded string) (string, []byte, error) {
	contentType := "image/jpeg"
	payload := encoded
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ";base64,")
		if idx < 0 {
			return "", nil, fmt.Errorf("image payload is not base64 encoded")
		}
		contentType = encoded[len("data:"):idx]
		payload = encoded[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding image payload: %v", err)
	}
	return contentType, data, nil
}

func attachScanImageHandler(scanService *services.ScanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req attachImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		contentType, data, err := parseDataURI(req.Image)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError("Please upload an image file"))
			return
		}

		info, err := scanService.AttachImage(user.ID, data, contentType)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func requestScanHandler(scanService *services.ScanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		outcome, err := scanService.RequestScan(c.Request.Context(), req.SessionID, user)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		resp := gin.H{
			"score":       outcome.Result.Score,
			"explanation": outcome.Result.Explanation,
		}
		if outcome.Usage != nil {
			resp["usage"] = gin.H{
				"scans_this_month": outcome.Usage.ScansThisMonth,
				"purchased_scans":  outcome.Usage.PurchasedScans,
				"remaining":        services.RemainingScans(user.SubscriptionTier, outcome.Usage),
			}
		}
		if outcome.LedgerErr != nil {
			resp["usage_warning"] = "Scan completed but usage could not be recorded"
		}
		c.JSON(http.StatusOK, resp)
	}
}

func resetScanHandler(scanService *services.ScanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		scanService.Reset(req.SessionID, user.ID)
		c.JSON(http.StatusOK, gin.H{"state": services.ScanStateIdle})
	}
}

func scanStatusHandler(scanService *services.ScanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		sessionID := c.Query("session_id")
		if sessionID == "" {
			apperrors.HandleError(c, apperrors.New400Error("session_id is required"))
			return
		}

		info, err := scanService.Status(sessionID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func recentScansHandler(historyService services.ScanHistoryDB, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		scans, err := historyService.GetScansByUserIDFromDB(user.ID, limit)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"scans": scans})
	}
}

func getUsageHandler(usageService services.UsageServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		usage, err := usageService.GetUsageDB(user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"scans_this_month": usage.ScansThisMonth,
			"purchased_scans":  usage.PurchasedScans,
			"allowance":        services.AllowanceForTier(user.SubscriptionTier),
			"remaining":        services.RemainingScans(user.SubscriptionTier, usage),
			"cycle_start":      usage.CycleStart,
		})
	}
}
