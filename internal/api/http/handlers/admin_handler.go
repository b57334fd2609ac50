package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-router/internal/api/dto"
	"github.com/spec-kit/support-router/internal/classifier"
	"github.com/spec-kit/support-router/internal/service"
)

// AdminHandler exposes the operator REST surface over the ticket store.
type AdminHandler struct {
	tickets *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tickets *service.TicketService) *AdminHandler {
	return &AdminHandler{tickets: tickets}
}

// ListActive handles GET /admin/tickets.
func (h *AdminHandler) ListActive(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListActive(c.UserContext())
	if err != nil {
		return err
	}

	summaries := make([]dto.TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		summaries = append(summaries, dto.TicketSummaryFrom(t))
	}
	return c.JSON(fiber.Map{"data": summaries})
}

// UpdateStatus handles POST /admin/tickets/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid ticket id")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ticket, err := h.tickets.AdvanceStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketSummaryFrom(*ticket)})
}

// Classify handles POST /admin/classify. Preview only: the interactive
// flow never auto-routes, departments are always chosen explicitly.
func (h *AdminHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	resp := dto.ClassifyResponse{}
	if dept, ok := classifier.Detect(req.Text); ok {
		resp.Department = &dept
	}
	return c.JSON(fiber.Map{"data": resp})
}
