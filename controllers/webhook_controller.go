package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/mikeychann-hash/Evies-Epoxy/services"
)

// EventReconciler consumes signature-verified payment events.
type EventReconciler interface {
	HandleEvent(ctx context.Context, event stripe.Event) error
}

type WebhookController struct {
	stripe     *services.StripeService
	reconciler EventReconciler
}

func NewWebhookController(stripeSvc *services.StripeService, reconciler EventReconciler) *WebhookController {
	return &WebhookController{
		stripe:     stripeSvc,
		reconciler: reconciler,
	}
}

// StripeWebhook receives payment-outcome notifications. Signature
// verification runs before any business logic; an unverifiable payload is
// never trusted regardless of its content. Processing no-ops (unrecognized
// events, unknown orders) still acknowledge with 200 so Stripe stops
// retrying them.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	if !wc.stripe.WebhookSecretConfigured() {
		// Fatal misconfiguration, not a bad request.
		zap.L().Error("STRIPE_WEBHOOK_SECRET not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	if c.GetHeader("Stripe-Signature") == "" {
		zap.L().Warn("Missing Stripe signature header")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
		return
	}

	event, err := wc.stripe.ParseWebhook(c.Request)
	if err != nil {
		zap.L().Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	zap.L().Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	if err := wc.reconciler.HandleEvent(c.Request.Context(), event); err != nil {
		// A processing failure must surface as 5xx so Stripe redelivers.
		zap.L().Error("Webhook processing failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
