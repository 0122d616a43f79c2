package services

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeService sells scan top-up packs. Each configured price maps to
// a fixed number of extra scans for the current cycle.
type StripeService struct {
	publicKey     string
	secretKey     string
	webhookSecret string
	packScans     map[string]int
}

func NewStripeService(publicKey, secretKey, webhookSecret string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		publicKey:     publicKey,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		packScans: map[string]int{
			os.Getenv("STRIPE_PRICE_SINGLE_SCAN"):  1,
			os.Getenv("STRIPE_PRICE_FIVE_SCANS"):   5,
			os.Getenv("STRIPE_PRICE_TWENTY_SCANS"): 20,
		},
	}
}

// PackScans resolves a price ID to its scan count. Zero means the
// price is not a known pack.
func (s *StripeService) PackScans(priceID string) int {
	if priceID == "" {
		return 0
	}
	return s.packScans[priceID]
}

func (s *StripeService) CreateScanPackCheckout(userID, priceID string) (*stripe.CheckoutSession, error) {
	scans := s.PackScans(priceID)
	if scans == 0 {
		return nil, fmt.Errorf("unknown scan pack price: %s", priceID)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		ClientReferenceID: stripe.String(userID),
		Metadata: map[string]string{
			"price_id": priceID,
		},
	}

	return session.New(params)
}

func (s *StripeService) HandleWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
}
