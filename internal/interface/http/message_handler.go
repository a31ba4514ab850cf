package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

type MessageHandler struct {
	Svc    *application.MessageService
	Logger *logrus.Logger
}

func NewMessageHandler(svc *application.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Email   string  `json:"email" binding:"required,email,max=100"`
	Subject *string `json:"subject" binding:"omitempty,max=200"`
	Message string  `json:"message" binding:"required,max=5000"`
}

type feedbackRequest struct {
	Message string `json:"message" binding:"required,max=5000"`
}

func (h *MessageHandler) SendContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ct, err := h.Svc.SendContact(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ct, "message sent", nil)
}

func (h *MessageHandler) ListContacts(c *gin.Context) {
	list, err := h.Svc.ListContacts(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "contacts retrieved", map[string]any{"count": len(list)})
}

func (h *MessageHandler) SendFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	fb, err := h.Svc.SendFeedback(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, fb, "feedback received", nil)
}

func (h *MessageHandler) ListFeedback(c *gin.Context) {
	list, err := h.Svc.ListFeedback(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "feedback retrieved", map[string]any{"count": len(list)})
}
