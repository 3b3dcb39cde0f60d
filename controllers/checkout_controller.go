package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mikeychann-hash/Evies-Epoxy/middleware"
	"github.com/mikeychann-hash/Evies-Epoxy/services"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Checkout validates the submitted cart against authoritative product data,
// persists a PENDING order and returns the payment-session handle for the
// client redirect.
func (cc *CheckoutController) Checkout(c *gin.Context) {
	userIDRaw, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := c.GetString(middleware.EmailContextKey)

	result, appErr := cc.checkout.Checkout(c.Request.Context(), userID, email, &req)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusCreated, result)
}
