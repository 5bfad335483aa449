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

type ConsultationHandler struct {
	BaseHandler
	consultationService services.ConsultationService
}

func NewConsultationHandler(consultationService services.ConsultationService, logger utils.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		BaseHandler:         NewBaseHandler(logger),
		consultationService: consultationService,
	}
}

// Submit files a new symptom case for the calling patient. The optional
// symptom photo arrives as the multipart field "photo".
func (h *ConsultationHandler) Submit(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting consultation", "patient_id", identity.UserID)

	var req models.SubmitConsultationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	photo, closeUpload, err := h.formFileUpload(c, "photo")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer closeUpload()

	consultation, err := h.consultationService.Submit(c.Request.Context(), identity, &req, photo)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, consultation)
}

// ListPending returns unclaimed cases, oldest first.
func (h *ConsultationHandler) ListPending(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	consultations, err := h.consultationService.ListPending(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultations": consultations,
		"total":         len(consultations),
	})
}

// Claim assigns a pending case to the calling doctor. Exactly one of two
// racing doctors wins.
func (h *ConsultationHandler) Claim(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Claiming consultation", "consultation_id", id, "doctor_id", identity.UserID)

	consultation, err := h.consultationService.Claim(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, consultation)
}

// Respond records the calling doctor's answer and closes the case. The
// optional audio note arrives as the multipart field "audio_note".
func (h *ConsultationHandler) Respond(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Responding to consultation", "consultation_id", id, "doctor_id", identity.UserID)

	var req models.RespondConsultationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	audioNote, closeUpload, err := h.formFileUpload(c, "audio_note")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer closeUpload()

	consultation, err := h.consultationService.Respond(c.Request.Context(), identity, id, &req, audioNote)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, consultation)
}

// Get returns a single case visible to the caller.
func (h *ConsultationHandler) Get(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	consultation, err := h.consultationService.GetByID(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, consultation)
}

// ListMine returns the calling patient's own case history.
func (h *ConsultationHandler) ListMine(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	filters := h.parseConsultationFilters(c)
	consultations, total, err := h.consultationService.ListMine(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultations": consultations,
		"total":         total,
		"page":          (filters.Offset / max(filters.Limit, 1)) + 1,
		"size":          filters.Limit,
	})
}

// ListAssigned returns cases assigned to the calling doctor.
func (h *ConsultationHandler) ListAssigned(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	filters := h.parseConsultationFilters(c)
	consultations, total, err := h.consultationService.ListAssigned(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultations": consultations,
		"total":         total,
		"page":          (filters.Offset / max(filters.Limit, 1)) + 1,
		"size":          filters.Limit,
	})
}

// ===== HELPER METHODS =====

func (h *ConsultationHandler) parseConsultationFilters(c *gin.Context) repositories.ConsultationFilters {
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

	filters := repositories.ConsultationFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if status := c.Query("status"); status != "" {
		consultationStatus := models.ConsultationStatus(status)
		filters.Status = &consultationStatus
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
