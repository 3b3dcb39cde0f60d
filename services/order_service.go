package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/apperrors"
	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService serves order reads and the admin fulfillment transitions.
// Payment-driven transitions live in ReconcilerService, not here.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, *apperrors.Error) {
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		zap.L().Error("Failed to fetch user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *apperrors.Error) {
	order, err := s.orders.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order")
		}
		zap.L().Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return order, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *apperrors.Error) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		zap.L().Error("Failed to fetch all orders", zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// UpdateStatus applies an admin fulfillment transition (e.g. PROCESSING ->
// SHIPPED). Transitions outside the lifecycle table are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, *apperrors.Error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.Validation("Unknown order status")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order")
		}
		return nil, apperrors.Internal(err)
	}

	if !models.CanTransition(order.Status, status) {
		return nil, apperrors.Conflict("Invalid status transition from " + string(order.Status) + " to " + string(status))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		zap.L().Error("Failed to update order status",
			zap.String("order_id", orderID.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, apperrors.Internal(err)
	}

	order.Status = status
	zap.L().Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
	)
	return order, nil
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:        page,
		Limit:       limit,
		TotalOrders: total,
		TotalPages:  calculateTotalPages(total, limit),
		HasMore:     total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
