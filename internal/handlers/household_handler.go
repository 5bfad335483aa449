package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

type HouseholdHandler struct {
	BaseHandler
	householdService services.HouseholdService
}

func NewHouseholdHandler(householdService services.HouseholdService, logger utils.Logger) *HouseholdHandler {
	return &HouseholdHandler{
		BaseHandler:      NewBaseHandler(logger),
		householdService: householdService,
	}
}

// ===== HOUSEHOLDS =====

func (h *HouseholdHandler) Create(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req models.HouseholdRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating household", "asha_id", identity.UserID)

	household, err := h.householdService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, household)
}

func (h *HouseholdHandler) Get(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	household, err := h.householdService.Get(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, household)
}

func (h *HouseholdHandler) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req models.HouseholdRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	household, err := h.householdService.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, household)
}

func (h *HouseholdHandler) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting household", "household_id", id, "asha_id", identity.UserID)

	if err := h.householdService.Delete(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "household deleted"})
}

// List returns the calling worker's households, with optional substring
// search over name and id via the "q" query parameter.
func (h *HouseholdHandler) List(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	filters := h.parseHouseholdFilters(c)
	households, total, err := h.householdService.List(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"households": households,
		"total":      total,
		"page":       (filters.Offset / max(filters.Limit, 1)) + 1,
		"size":       filters.Limit,
	})
}

func (h *HouseholdHandler) Verify(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Verifying household", "household_id", id, "asha_id", identity.UserID)

	household, err := h.householdService.Verify(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, household)
}

// ===== MCH RECORDS =====

func (h *HouseholdHandler) CreateRecord(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req models.MCHRecordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating MCH record", "asha_id", identity.UserID, "patient_id", req.PatientID)

	record, err := h.householdService.CreateRecord(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *HouseholdHandler) GetRecord(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	record, err := h.householdService.GetRecord(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HouseholdHandler) ListRecords(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	filters := h.parseMCHFilters(c)
	records, total, err := h.householdService.ListRecords(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
		"page":    (filters.Offset / max(filters.Limit, 1)) + 1,
		"size":    filters.Limit,
	})
}

// RecordSummary returns per-type MCH record counts for the caller's
// dashboard.
func (h *HouseholdHandler) RecordSummary(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	summary, err := h.householdService.RecordSummary(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ===== HELPER METHODS =====

func (h *HouseholdHandler) parsePagination(c *gin.Context) (limit, offset int) {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return size, (page - 1) * size
}

func (h *HouseholdHandler) parseHouseholdFilters(c *gin.Context) repositories.HouseholdFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.HouseholdFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	if verifiedStr := c.Query("verified"); verifiedStr != "" {
		if verified, err := strconv.ParseBool(verifiedStr); err == nil {
			filters.Verified = &verified
		}
	}

	return filters
}

func (h *HouseholdHandler) parseMCHFilters(c *gin.Context) repositories.MCHFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.MCHFilters{
		Limit:  limit,
		Offset: offset,
	}

	if recordType := c.Query("record_type"); recordType != "" {
		filters.RecordType = &recordType
	}
	if patientIDStr := c.Query("patient_id"); patientIDStr != "" {
		if patientID, err := strconv.ParseUint(patientIDStr, 10, 32); err == nil {
			id := uint(patientID)
			filters.PatientID = &id
		}
	}
	if from := c.Query("date_from"); from != "" {
		if ts, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &ts
		}
	}
	if to := c.Query("date_to"); to != "" {
		if ts, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &ts
		}
	}

	return filters
}
