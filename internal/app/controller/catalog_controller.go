package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	apperrors "github.com/ikkim/dualstore-shop/internal/errors"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListProducts GET /api/v1/products
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	products, err := ctrl.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListUsers GET /api/v1/users
func (ctrl *CatalogController) ListUsers(c *gin.Context) {
	users, err := ctrl.catalogService.ListUsers(c.Request.Context())
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
