package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared logging and error-mapping helpers
// embedded by every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetContextLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetContextLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

// parseIDParam parses a numeric path parameter, responding with 400 and
// returning 0 when it is missing or malformed.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// maxUploadBytes caps individual multipart uploads (photos, audio notes,
// chat attachments).
const maxUploadBytes = 10 << 20

// formFileUpload opens an optional multipart file field. It returns a nil
// upload when the field is absent and ErrUploadTooLarge when the file
// exceeds the cap. The caller must invoke the returned closer.
func (h *BaseHandler) formFileUpload(c *gin.Context, field string) (*services.FileUpload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	if header.Size > maxUploadBytes {
		return nil, func() {}, services.ErrUploadTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	upload := &services.FileUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return upload, func() { file.Close() }, nil
}

// handleServiceError maps domain errors to HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid credentials",
		})
	case errors.Is(err, services.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "An account with this email or username already exists",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrConsultationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Consultation not found",
		})
	case errors.Is(err, services.ErrThreadNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Chat thread not found",
		})
	case errors.Is(err, services.ErrHouseholdNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Household not found",
		})
	case errors.Is(err, services.ErrMCHRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "MCH record not found",
		})
	case errors.Is(err, services.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Consultation already claimed by another doctor",
		})
	case errors.Is(err, services.ErrNotAssigned):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Consultation is not under review by you",
		})
	case errors.Is(err, services.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Message must contain text or a file",
		})
	case errors.Is(err, services.ErrNotADoctor):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Selected user is not a doctor",
		})
	case errors.Is(err, services.ErrSelfThread):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Cannot open a chat thread with yourself",
		})
	case errors.Is(err, services.ErrFileRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File upload is required",
		})
	case errors.Is(err, services.ErrUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "Uploaded file is too large",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
