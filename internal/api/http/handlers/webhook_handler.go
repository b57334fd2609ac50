package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/api/dto"
	"github.com/spec-kit/support-router/internal/engine"
)

// WebhookHandler feeds inbound chat updates to the conversation engine.
type WebhookHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(eng *engine.Engine, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{engine: eng, logger: logger}
}

// Handle processes POST /webhook. The update is handled to completion
// before acking; per-event failures are conversational, not transport
// errors, so the platform always gets a 200 for a well-formed payload.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	var update dto.Update
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ev, ok := eventFromUpdate(update)
	if !ok {
		// Updates without message or callback content are acked and dropped.
		return c.SendStatus(http.StatusOK)
	}

	if err := h.engine.HandleEvent(c.UserContext(), ev); err != nil {
		h.logger.Error("event processing failed",
			zap.Int64("update_id", update.UpdateID),
			zap.Int64("user_id", ev.UserID),
			zap.Error(err))
	}
	return c.SendStatus(http.StatusOK)
}

func eventFromUpdate(update dto.Update) (engine.Event, bool) {
	switch {
	case update.Message != nil:
		return engine.Event{UserID: update.Message.From.ID, Text: update.Message.Text}, true
	case update.Callback != nil:
		return engine.Event{UserID: update.Callback.From.ID, Callback: update.Callback.Data}, true
	}
	return engine.Event{}, false
}
