package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	apperrors "github.com/ikkim/dualstore-shop/internal/errors"
)

type StatusController struct {
	statusService service.StatusService
}

func NewStatusController(statusService service.StatusService) *StatusController {
	return &StatusController{statusService: statusService}
}

// Status GET /api/v1/status
func (ctrl *StatusController) Status(c *gin.Context) {
	status, err := ctrl.statusService.Status(c.Request.Context())
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
