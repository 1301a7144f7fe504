package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	apperrors "github.com/ikkim/dualstore-shop/internal/errors"
	"github.com/ikkim/dualstore-shop/internal/export"
	"github.com/shopspring/decimal"
)

const (
	ReportSpenders     = "spenders"
	ReportRepeatBuyers = "repeat-buyers"
)

type ReportController struct {
	reportService    service.ReportService
	defaultThreshold decimal.Decimal
}

func NewReportController(reportService service.ReportService, defaultThreshold decimal.Decimal) *ReportController {
	return &ReportController{
		reportService:    reportService,
		defaultThreshold: defaultThreshold,
	}
}

func (ctrl *ReportController) threshold(c *gin.Context) (decimal.Decimal, bool) {
	raw := c.Query("threshold")
	if raw == "" {
		return ctrl.defaultThreshold, true
	}
	t, err := decimal.NewFromString(raw)
	if err != nil || t.IsNegative() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "threshold must be a non-negative decimal")
		return decimal.Zero, false
	}
	return t, true
}

// Spenders GET /api/v1/reports/spenders?threshold=
func (ctrl *ReportController) Spenders(c *gin.Context) {
	threshold, ok := ctrl.threshold(c)
	if !ok {
		return
	}

	rows, err := ctrl.reportService.Spenders(c.Request.Context(), threshold)
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threshold": threshold.String(),
		"rows":      rows,
		"count":     len(rows),
	})
}

// RepeatBuyers GET /api/v1/reports/repeat-buyers
func (ctrl *ReportController) RepeatBuyers(c *gin.Context) {
	rows, err := ctrl.reportService.RepeatBuyers(c.Request.Context())
	if err != nil {
		apperrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}

// Export GET /api/v1/reports/:name/export
func (ctrl *ReportController) Export(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	var buf bytes.Buffer
	switch name {
	case ReportSpenders:
		threshold, ok := ctrl.threshold(c)
		if !ok {
			return
		}
		rows, err := ctrl.reportService.Spenders(ctx, threshold)
		if err != nil {
			apperrors.RespondWithDomainError(c, err)
			return
		}
		if err := export.WriteSpenders(&buf, rows); err != nil {
			apperrors.RespondWithDomainError(c, err)
			return
		}
	case ReportRepeatBuyers:
		rows, err := ctrl.reportService.RepeatBuyers(ctx)
		if err != nil {
			apperrors.RespondWithDomainError(c, err)
			return
		}
		if err := export.WriteRepeatBuyers(&buf, rows); err != nil {
			apperrors.RespondWithDomainError(c, err)
			return
		}
	default:
		apperrors.NotFound(c, apperrors.ReportUnknown, fmt.Sprintf("unknown report %q", name))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
