package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// HouseholdRegister downloads the calling worker's household register as an
// xlsx workbook.
func (h *ReportHandler) HouseholdRegister(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting household register", "asha_id", identity.UserID)

	workbook, err := h.reportService.HouseholdRegister(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "household_register", workbook)
}

// MCHRegister downloads the calling worker's MCH records as an xlsx
// workbook.
func (h *ReportHandler) MCHRegister(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting MCH register", "asha_id", identity.UserID)

	workbook, err := h.reportService.MCHRegister(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "mch_register", workbook)
}

// AdminOverview downloads platform-wide aggregate counts as an xlsx
// workbook.
func (h *ReportHandler) AdminOverview(c *gin.Context) {
	h.LogRequest(c, "Exporting admin overview")

	workbook, err := h.reportService.AdminOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "platform_overview", workbook)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, name string, workbook []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}
