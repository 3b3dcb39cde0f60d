package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

// ReconcilerService folds verified payment-processor events into order
// state. It is the only component that moves orders out of PENDING and the
// only trigger for stock decrement. Stripe delivers at-least-once, so every
// handler must tolerate redelivery.
type ReconcilerService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

func NewReconcilerService(orders repository.OrderRepository, products repository.ProductRepository) *ReconcilerService {
	return &ReconcilerService{
		orders:   orders,
		products: products,
	}
}

// HandleEvent dispatches a signature-verified webhook event. Unrecognized
// event types are logged and acknowledged, never errors.
func (s *ReconcilerService) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			zap.L().Error("Failed to unmarshal checkout session", zap.Error(err))
			return err
		}
		return s.handleSessionCompleted(ctx, &sess)

	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			zap.L().Error("Failed to unmarshal payment intent", zap.Error(err))
			return err
		}
		return s.handlePaymentSucceeded(ctx, &pi)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			zap.L().Error("Failed to unmarshal payment intent", zap.Error(err))
			return err
		}
		return s.handlePaymentFailed(ctx, &pi)

	default:
		zap.L().Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		return nil
	}
}

// handleSessionCompleted confirms payment for the order referenced in the
// session metadata: PENDING -> PROCESSING, record the payment reference,
// then decrement stock for every item. The PENDING claim and the decrement
// loop run at most once per order no matter how often the event arrives.
func (s *ReconcilerService) handleSessionCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	orderIDRaw := sess.Metadata["order_id"]
	if orderIDRaw == "" {
		// Sessions without our metadata are not ours to reconcile.
		zap.L().Info("Checkout session without order metadata", zap.String("session_id", sess.ID))
		return nil
	}

	orderID, err := uuid.Parse(orderIDRaw)
	if err != nil {
		zap.L().Warn("Malformed order id in session metadata",
			zap.String("session_id", sess.ID),
			zap.String("order_id", orderIDRaw),
		)
		return nil
	}

	paymentRef := ""
	if sess.PaymentIntent != nil {
		paymentRef = sess.PaymentIntent.ID
	}

	claimed, err := s.orders.MarkProcessing(ctx, orderID, paymentRef)
	if err != nil {
		zap.L().Error("Failed to transition order to PROCESSING",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return err
	}
	if !claimed {
		zap.L().Info("Order already reconciled or unknown; skipping stock decrement",
			zap.String("order_id", orderID.String()),
		)
		return nil
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("Failed to load order items after claim",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return err
	}

	for _, item := range order.Items {
		ok, err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			zap.L().Error("Stock decrement failed",
				zap.String("order_id", orderID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}
		if !ok {
			// A concurrent checkout won the race for the last units. The
			// oversell is an accepted risk of decrement-on-confirm; it is
			// surfaced here, never hidden.
			zap.L().Warn("Stock floor hit, order oversold",
				zap.String("order_id", orderID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
			)
		}
	}

	zap.L().Info("Order reconciled to PROCESSING",
		zap.String("order_id", orderID.String()),
		zap.String("payment_intent_id", paymentRef),
	)
	return nil
}

// handlePaymentSucceeded is defensive: checkout.session.completed normally
// already moved the order. It only nudges a still-PENDING order forward.
func (s *ReconcilerService) handlePaymentSucceeded(ctx context.Context, pi *stripe.PaymentIntent) error {
	order, err := s.orders.FindByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("No order found for payment intent", zap.String("payment_intent_id", pi.ID))
			return nil
		}
		return err
	}

	if order.Status == models.OrderPending {
		if _, err := s.orders.MarkProcessing(ctx, order.ID, pi.ID); err != nil {
			return err
		}
		zap.L().Info("Order moved to PROCESSING on payment success",
			zap.String("order_id", order.ID.String()),
		)
	}
	return nil
}

// handlePaymentFailed cancels the order. Cancellation is allowed from
// PENDING and PROCESSING only: once fulfillment has begun (SHIPPED,
// DELIVERED) a late failure event is logged and ignored.
func (s *ReconcilerService) handlePaymentFailed(ctx context.Context, pi *stripe.PaymentIntent) error {
	order, err := s.orders.FindByPaymentIntentID(ctx, pi.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("No order found for payment intent", zap.String("payment_intent_id", pi.ID))
			return nil
		}
		return err
	}

	cancelled, err := s.orders.Cancel(ctx, order.ID)
	if err != nil {
		return err
	}
	if !cancelled {
		zap.L().Warn("Payment failure for order past cancellation",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
		return nil
	}

	zap.L().Info("Order cancelled after payment failure",
		zap.String("order_id", order.ID.String()),
	)
	return nil
}
