package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	apperrors "github.com/ikkim/dualstore-shop/internal/errors"
	"github.com/ikkim/dualstore-shop/internal/middleware"
	"github.com/shopspring/decimal"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GetCart GET /api/v1/users/:id/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	lines, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": lines,
		"count":      len(lines),
		"total":      total.StringFixed(2),
	})
}

// AddToCart POST /api/v1/users/:id/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"body": err.Error()})
		return
	}

	if err := ctrl.cartService.AddToCart(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "item added to cart",
	})
}
