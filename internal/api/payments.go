package api

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "pawrate_go_backend/internal/errors"
	"pawrate_go_backend/internal/services"
	"pawrate_go_backend/internal/utils/broker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"
)

type purchaseScansRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

func purchaseScansHandler(stripeService *services.StripeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req purchaseScansRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		session, err := stripeService.CreateScanPackCheckout(user.ID.String(), req.PriceID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "url": session.URL})
	}
}

// stripeWebhookHandler credits purchased scan packs once Stripe
// confirms the checkout. Signature verification happens before the
// payload is trusted.
func stripeWebhookHandler(stripeService *services.StripeService, usageService services.UsageServiceDB, messageBroker *broker.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Could not read request body"))
			return
		}

		event, err := stripeService.HandleWebhook(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Webhook signature verification failed"))
			return
		}

		if event.Type == "checkout.session.completed" {
			var session stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
				apperrors.HandleError(c, apperrors.New400Error("Malformed checkout session payload"))
				return
			}

			userID, err := uuid.Parse(session.ClientReferenceID)
			if err != nil {
				apperrors.HandleError(c, apperrors.New400Error("Invalid client reference ID"))
				return
			}

			scans := stripeService.PackScans(session.Metadata["price_id"])
			if scans == 0 {
				apperrors.HandleError(c, apperrors.New400Error("Unknown scan pack price"))
				return
			}

			usage, err := usageService.AddPurchasedScansDB(userID, scans)
			if err != nil {
				handleServiceError(c, err)
				return
			}
			log.Info().Str("user_id", userID.String()).Int("scans", scans).Msg("scan pack credited")

			messageBroker.Publish("usage_update_"+userID.String(), usage)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
