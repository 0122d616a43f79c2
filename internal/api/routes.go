package api

import (
	stderrors "errors"

	"pawrate_go_backend/cmd/api/config"
	"pawrate_go_backend/internal/auth"
	apperrors "pawrate_go_backend/internal/errors"
	"pawrate_go_backend/internal/metrics"
	"pawrate_go_backend/internal/middleware"
	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/services"
	"pawrate_go_backend/internal/utils/broker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(
	r *gin.Engine,
	scanService *services.ScanService,
	dietService *services.DietService,
	catService services.CatServiceDB,
	historyService services.ScanHistoryDB,
	usageService services.UsageServiceDB,
	stripeService *services.StripeService,
	storageService services.CloudStorageManager,
	userService services.UserServiceDB,
	messageBroker *broker.Broker,
	collector *metrics.Collector,
	scanLimiter *middleware.RateLimiter,
	cfg *config.Config,
) {
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	api := r.Group("/api")
	{
		api.POST("/scans/image", auth.AuthMiddleware(userService), attachScanImageHandler(scanService))
		api.POST("/scans/analyze", auth.AuthMiddleware(userService), scanLimiter.Middleware(), requestScanHandler(scanService))
		api.POST("/scans/reset", auth.AuthMiddleware(userService), resetScanHandler(scanService))
		api.GET("/scans/status", auth.AuthMiddleware(userService), scanStatusHandler(scanService))
		api.GET("/scans/recent", auth.AuthMiddleware(userService), recentScansHandler(historyService, cfg.RecentScanLimit))
		api.GET("/usage", auth.AuthMiddleware(userService), getUsageHandler(usageService))

		api.POST("/cats", auth.AuthMiddleware(userService), createCatHandler(catService))
		api.GET("/cats", auth.AuthMiddleware(userService), listCatsHandler(catService))
		api.GET("/cats/:id", auth.AuthMiddleware(userService), getCatHandler(catService))
		api.PUT("/cats/:id", auth.AuthMiddleware(userService), updateCatHandler(catService))
		api.DELETE("/cats/:id", auth.AuthMiddleware(userService), deleteCatHandler(catService))
		api.POST("/cats/:id/picture", auth.AuthMiddleware(userService), uploadCatPictureHandler(catService, storageService))
		api.POST("/cats/:id/diet", auth.AuthMiddleware(userService), generateDietPlanHandler(dietService))
		api.GET("/cats/:id/diet/pdf", auth.AuthMiddleware(userService), dietPlanPDFHandler(dietService, catService))

		api.POST("/purchase-scans", auth.AuthMiddleware(userService), purchaseScansHandler(stripeService))
		api.POST("/stripe/webhook", stripeWebhookHandler(stripeService, usageService, messageBroker))
	}
}

// currentUser pulls the authenticated user the middleware placed in
// the context.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		apperrors.HandleError(c, apperrors.New401Error())
		return nil, false
	}
	userModel, ok := user.(*models.User)
	if !ok {
		apperrors.HandleError(c, apperrors.New401Error())
		return nil, false
	}
	return userModel, true
}

// handleServiceError maps the service sentinel errors onto the HTTP
// error taxonomy. Provider detail never reaches the client.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrInvalidImage):
		apperrors.HandleError(c, apperrors.NewValidationError("Please upload an image file"))
	case stderrors.Is(err, services.ErrImageTooLarge):
		apperrors.HandleError(c, apperrors.NewValidationError("Please upload an image smaller than 5MB"))
	case stderrors.Is(err, services.ErrImageDecode):
		apperrors.HandleError(c, apperrors.NewValidationError("The uploaded file could not be read as an image"))
	case stderrors.Is(err, services.ErrQuotaExceeded):
		apperrors.HandleError(c, apperrors.NewQuotaExceededError())
	case stderrors.Is(err, services.ErrRemoteUnavailable):
		apperrors.HandleError(c, apperrors.NewRemoteUnavailableError(err))
	case stderrors.Is(err, services.ErrScoreParse):
		apperrors.HandleError(c, apperrors.NewScoreParseError(err))
	case stderrors.Is(err, services.ErrEmptyPlan):
		apperrors.HandleError(c, apperrors.NewEmptyPlanError(err))
	case stderrors.Is(err, services.ErrLedgerUnavailable):
		apperrors.HandleError(c, apperrors.NewLedgerUnavailableError(err))
	case stderrors.Is(err, services.ErrSessionNotFound):
		apperrors.HandleError(c, apperrors.New404Error("Scan session not found"))
	case stderrors.Is(err, services.ErrWorkflowState), stderrors.Is(err, services.ErrScanSuperseded):
		apperrors.HandleError(c, apperrors.New400Error(err.Error()))
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		apperrors.HandleError(c, apperrors.New404Error("Not found"))
	default:
		apperrors.HandleError(c, apperrors.New500Error(err))
	}
}
