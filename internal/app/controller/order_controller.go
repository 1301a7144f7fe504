package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	apperrors "github.com/ikkim/dualstore-shop/internal/errors"
	"github.com/ikkim/dualstore-shop/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type PlaceOrderRequest struct {
	PaymentStatus model.PaymentStatus `json:"payment_status" binding:"required"`
}

// PlaceOrder POST /api/v1/users/:id/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"payment_status": "required: Paid or Unpaid"})
		return
	}

	orderID, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, req.PaymentStatus)
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": orderID,
	})
}

// CancelOrder POST /api/v1/users/:id/orders/:orderId/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}

	if err := ctrl.orderService.CancelOrder(c.Request.Context(), userID, orderID); err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "order canceled",
		"order_id": orderID,
	})
}

// GetOrder GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := ctrl.orderService.GetOrderDetail(c.Request.Context(), orderID)
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": detail,
	})
}
