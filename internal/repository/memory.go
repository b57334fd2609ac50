package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-router/internal/domain"
)

// MemoryTicketRepository is an in-process TicketRepository used by tests and
// DSN-less development runs. Mutations are serialized by a single mutex, so
// id assignment never collides and readers never observe a half-written row.
type MemoryTicketRepository struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]domain.Ticket
}

// NewMemoryTicketRepository creates an empty in-memory repository.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		nextID:  1,
		tickets: make(map[int64]domain.Ticket),
	}
}

func (r *MemoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket.ID = r.nextID
	r.nextID++
	ticket.Status = domain.TicketStatusNew
	ticket.CreatedAt = time.Now().UTC()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *MemoryTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *MemoryTicketRepository) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.Status != domain.TicketStatusResolved {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryTicketRepository) MarkResolved(ctx context.Context, id int64) (*domain.Ticket, error) {
	return r.UpdateStatus(ctx, id, domain.TicketStatusResolved)
}

func (r *MemoryTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	r.tickets[id] = ticket
	return &ticket, nil
}
