package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
	}
}

// OpenThread finds or creates the unique thread between the caller and a
// counterpart.
func (h *ChatHandler) OpenThread(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req models.OpenThreadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Opening chat thread", "user_id", identity.UserID, "counterpart_id", req.CounterpartID)

	thread, err := h.chatService.OpenThread(c.Request.Context(), identity, req.CounterpartID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// SendMessage appends a message to a thread. Text arrives as the form
// field "message_text", the optional attachment as "attachment".
func (h *ChatHandler) SendMessage(c *gin.Context) {
	threadID := h.parseIDParam(c, "id")
	if threadID == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	attachment, closeUpload, err := h.formFileUpload(c, "attachment")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer closeUpload()

	message, err := h.chatService.SendMessage(c.Request.Context(), identity, threadID, &req, attachment)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages returns a thread's full history, oldest first, for its
// participants.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	threadID := h.parseIDParam(c, "id")
	if threadID == 0 {
		return
	}

	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), identity, threadID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// ListThreads returns the caller's threads with counterpart names.
func (h *ChatHandler) ListThreads(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	threads, err := h.chatService.ListThreads(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threads": threads,
		"total":   len(threads),
	})
}
