package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/response"
)

type messagingService interface {
	Preview(req dto.PreviewMessageRequest) (string, error)
	Deliver(ctx context.Context, req dto.SendMessageRequest) (*models.MessageResult, error)
}

// MessageHandler exposes template previews and ad-hoc messages.
type MessageHandler struct {
	service messagingService
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc messagingService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Preview godoc
// @Summary Render a message template
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body dto.PreviewMessageRequest true "Template and variables"
// @Success 200 {object} response.Envelope
// @Router /messages/preview [post]
func (h *MessageHandler) Preview(c *gin.Context) {
	var req dto.PreviewMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	text, err := h.service.Preview(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": text}, nil)
}

// Send godoc
// @Summary Send a WhatsApp message
// @Description Uses the webhook when configured, otherwise returns a wa.me link
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body dto.SendMessageRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /messages/send [post]
func (h *MessageHandler) Send(c *gin.Context) {
	if _, ok := requireClaims(c); !ok {
		return
	}
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Deliver(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
