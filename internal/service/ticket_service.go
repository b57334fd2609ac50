package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/repository"
	"github.com/spec-kit/support-router/pkg/util"
)

// TicketService coordinates ticket workflows: validation, persistence and
// event publication. Mutations are durably persisted before events fire.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and persists a new ticket, then publishes ticket_created.
func (s *TicketService) Create(ctx context.Context, userID int64, text string, department domain.Department) (*domain.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.NewValidationError("request text must not be empty", nil)
	}
	if !department.Valid() {
		return nil, util.NewValidationError("unknown department", map[string]any{
			"department": string(department),
		})
	}

	ticket := &domain.Ticket{
		UserID:     userID,
		Text:       text,
		Department: department,
		Status:     domain.TicketStatusNew,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			UserID:     ticket.UserID,
			Department: ticket.Department,
			Text:       ticket.Text,
		},
	})
	return ticket, nil
}

// Get fetches a ticket by id.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(err, id)
	}
	return ticket, nil
}

// ListActive returns unresolved tickets ordered by id ascending.
func (s *TicketService) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListActive(ctx)
}

// Resolve marks a ticket resolved and publishes ticket_resolved carrying
// the resolution text and the requester id. Resolving an already-resolved
// ticket succeeds and still re-sends the resolution, so a duplicated
// operator command stays harmless.
func (s *TicketService) Resolve(ctx context.Context, id int64, resolution string) (*domain.Ticket, error) {
	ticket, err := s.tickets.MarkResolved(ctx, id)
	if err != nil {
		return nil, mapTicketErr(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Payload: events.TicketResolvedPayload{
			UserID:     ticket.UserID,
			Resolution: resolution,
		},
	})
	return ticket, nil
}

// AdvanceStatus moves a ticket strictly forward (new → processing →
// resolved). Used by the operator REST surface; the chat flow only ever
// resolves.
func (s *TicketService) AdvanceStatus(ctx context.Context, id int64, next domain.TicketStatus) (*domain.Ticket, error) {
	if !next.Valid() {
		return nil, util.NewValidationError("unknown status", map[string]any{
			"status": string(next),
		})
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(err, id)
	}
	if !domain.CanTransition(current.Status, next) {
		return nil, util.NewValidationError("status may only move forward", map[string]any{
			"from": string(current.Status),
			"to":   string(next),
		})
	}

	if next == domain.TicketStatusResolved {
		return s.Resolve(ctx, id, "")
	}

	ticket, err := s.tickets.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, mapTicketErr(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTicketErr(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return err
}
