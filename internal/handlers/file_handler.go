package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

// FileHandler serves stored uploads (symptom photos, audio notes, chat
// attachments) back to authenticated users.
type FileHandler struct {
	BaseHandler
	files storage.FileStore
}

func NewFileHandler(files storage.FileStore, logger utils.Logger) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		files:       files,
	}
}

func (h *FileHandler) Download(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File name is required",
		})
		return
	}

	file, err := h.files.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "File not found",
			})
			return
		}
		h.LogError(c, err, "Failed to open stored file", "name", name)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "inline; filename="+name)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.LogError(c, err, "Failed to stream stored file", "name", name)
	}
}
