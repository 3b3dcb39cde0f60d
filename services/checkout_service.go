package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikeychann-hash/Evies-Epoxy/apperrors"
	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

// Pricing policy. These values are compatibility constants, not tunables:
// clients and historical orders assume them.
const (
	// Orders at or above the threshold ship free; below it a flat fee applies.
	FreeShippingThreshold = 50.0
	FlatShippingFee       = 10.0
	TaxRate               = 0.10
)

// CheckoutItemInput is a client-submitted cart line. It deliberately has no
// price or name field: those always come from the product record.
type CheckoutItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=100"`
}

type CheckoutRequest struct {
	Items           []CheckoutItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress models.Address      `json:"shipping_address" binding:"required"`
	BillingAddress  *models.Address     `json:"billing_address,omitempty"`
}

// CheckoutResult carries the handle the client uses to redirect into the
// processor-hosted payment flow.
type CheckoutResult struct {
	OrderID   uuid.UUID `json:"order_id"`
	SessionID string    `json:"session_id"`
}

// CheckoutService converts an untrusted cart into a priced, stock-checked,
// persisted PENDING order and opens the payment session for it. It never
// mutates stock: that happens only when the reconciler confirms payment.
type CheckoutService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	gateway  PaymentGateway
}

func NewCheckoutService(products repository.ProductRepository, orders repository.OrderRepository, gateway PaymentGateway) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		gateway:  gateway,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, userEmail string, req *CheckoutRequest) (*CheckoutResult, *apperrors.Error) {
	if len(req.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// Authoritative lookup: one batch fetch of every referenced product.
	// Client-submitted prices or names never enter this function.
	distinct := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			distinct = append(distinct, item.ProductID)
		}
	}

	products, err := s.products.FindActiveByIDs(ctx, distinct)
	if err != nil {
		zap.L().Error("Checkout product lookup failed", zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	if len(products) != len(distinct) {
		return nil, apperrors.ErrInvalidOrInactiveProduct
	}

	productMap := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	// Stock check is advisory and point-in-time: no reservation is taken.
	// The atomic decrement at payment confirmation is the real gate.
	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]CheckoutLine, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, apperrors.ErrInvalidOrInactiveProduct
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.InsufficientStock(product.Name, product.Stock, item.Quantity)
		}

		subtotal += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		lines = append(lines, CheckoutLine{
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
	}

	shipping := FlatShippingFee
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRate
	total := subtotal + shipping + tax

	order := &models.Order{
		UserID:          userID,
		Total:           total,
		Status:          models.OrderPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Items:           orderItems,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		zap.L().Error("Failed to persist order", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	sessionID, err := s.gateway.CreateCheckoutSession(ctx, order.ID, userEmail, lines, shipping)
	if err != nil {
		// The PENDING order stays behind without a session reference. The
		// reconciler never touches such orders, so no compensation runs;
		// stock is untouched either way.
		zap.L().Error("Failed to open payment session",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Internal(err)
	}

	if err := s.orders.SetPaymentIntentID(ctx, order.ID, sessionID); err != nil {
		zap.L().Error("Failed to persist payment session reference",
			zap.String("order_id", order.ID.String()),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, apperrors.Internal(err)
	}

	zap.L().Info("Checkout session created",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sessionID),
		zap.Float64("total", total),
	)

	return &CheckoutResult{OrderID: order.ID, SessionID: sessionID}, nil
}
