package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-router/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Missing ids surface as
// pgx.ErrNoRows; the service layer maps them to NOT_FOUND.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListActive(ctx context.Context) ([]domain.Ticket, error)
	MarkResolved(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, message_text, department)
        VALUES ($1,$2,$3)
        RETURNING id, status, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Text,
		ticket.Department,
	).Scan(&ticket.ID, &ticket.Status, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, message_text, department, status, created_at
        FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, user_id, message_text, department, status, created_at
        FROM tickets WHERE status <> $1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// MarkResolved is unconditional: resolving an already-resolved ticket is a
// no-op success, so duplicate operator commands stay harmless.
func (r *ticketRepository) MarkResolved(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$2 WHERE id=$1
        RETURNING id, user_id, message_text, department, status, created_at`
	return r.fetchSingle(ctx, query, id, domain.TicketStatusResolved)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$2 WHERE id=$1
        RETURNING id, user_id, message_text, department, status, created_at`
	return r.fetchSingle(ctx, query, id, status)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Text,
		&ticket.Department,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Text,
			&ticket.Department,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
