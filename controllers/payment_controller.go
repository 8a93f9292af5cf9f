package controllers

import (
	"net/http"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/services"
	"github.com/gin-gonic/gin"
)

// PaymentController handles checkout and order requests.
type PaymentController struct {
	orderService services.OrderService
}

func NewPaymentController(orderService services.OrderService) *PaymentController {
	return &PaymentController{orderService: orderService}
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := pc.orderService.CreatePaymentIntent(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPayment handles POST /confirm-payment.
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, svcErr := pc.orderService.ConfirmPayment(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment confirmed and order created!",
		"order_id":     result.OrderID,
		"email_sent":   result.EmailSent,
		"email_status": result.EmailStatus,
	})
}

// PlaceOrder handles the legacy POST /place_order.
func (pc *PaymentController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := pc.orderService.PlaceOrder(c.Request.Context(), &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully! Check your email for confirmation."})
}
