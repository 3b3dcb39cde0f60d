package services

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutLine is one priced line handed to the payment processor. Prices
// here are always the authoritative ones read from the database.
type CheckoutLine struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// PaymentGateway opens a hosted payment session for an order and returns its
// session id for the client redirect.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, customerEmail string, lines []CheckoutLine, shipping float64) (string, error)
}

// StripeService wraps the Stripe SDK for checkout sessions and webhook
// signature verification.
type StripeService struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeService(secretKey, webhookSecret, appURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		webhookSecret: webhookSecret,
		successURL:    appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     appURL + "/checkout",
	}
}

// WebhookSecretConfigured reports whether webhook verification can run at all.
func (s *StripeService) WebhookSecretConfigured() bool {
	return s.webhookSecret != ""
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, customerEmail string, lines []CheckoutLine, shipping float64) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				UnitAmount: stripe.Int64(toCents(line.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	shippingName := "Standard shipping"
	if shipping == 0 {
		shippingName = "Free shipping"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		LineItems:  lineItems,
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(toCents(shipping)),
						Currency: stripe.String("usd"),
					},
					DisplayName: stripe.String(shippingName),
				},
			},
		},
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}
	params.Context = ctx
	// The order id rides along as opaque metadata so the webhook can
	// round-trip it back to us.
	params.AddMetadata("order_id", orderID.String())

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// ParseWebhook verifies the payload signature against the configured secret
// and returns the decoded event. Nothing downstream may run on a payload
// that fails here.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
