package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-router/internal/domain"
)

func TestMemoryCreateGetRoundTrip(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := &domain.Ticket{
		UserID:     42,
		Text:       "my payment failed",
		Department: domain.DepartmentSupport,
	}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.ID == 0 {
		t.Fatal("Create did not assign an id")
	}
	if ticket.Status != domain.TicketStatusNew {
		t.Fatalf("new ticket status %q, want %q", ticket.Status, domain.TicketStatusNew)
	}
	if ticket.CreatedAt.IsZero() {
		t.Fatal("Create did not set CreatedAt")
	}

	got, err := repo.GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != 42 || got.Text != "my payment failed" || got.Department != domain.DepartmentSupport {
		t.Fatalf("GetByID returned mutated fields: %+v", got)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	repo := NewMemoryTicketRepository()
	if _, err := repo.GetByID(context.Background(), 999); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("GetByID missing: got %v, want pgx.ErrNoRows", err)
	}
}

func TestMemoryMarkResolvedIdempotent(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := &domain.Ticket{UserID: 1, Text: "x", Department: domain.DepartmentSales}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := repo.MarkResolved(ctx, ticket.ID)
		if err != nil {
			t.Fatalf("MarkResolved call %d: %v", i+1, err)
		}
		if got.Status != domain.TicketStatusResolved {
			t.Fatalf("MarkResolved call %d status %q", i+1, got.Status)
		}
	}
}

func TestMemoryListActive(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		ticket := &domain.Ticket{UserID: int64(i), Text: "t", Department: domain.DepartmentSupport}
		if err := repo.Create(ctx, ticket); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, ticket.ID)
	}
	if _, err := repo.MarkResolved(ctx, ids[2]); err != nil {
		t.Fatalf("MarkResolved: %v", err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 4 {
		t.Fatalf("ListActive returned %d tickets, want 4", len(active))
	}
	var last int64
	for _, ticket := range active {
		if ticket.Status == domain.TicketStatusResolved {
			t.Fatalf("ListActive contains resolved ticket %d", ticket.ID)
		}
		if ticket.ID <= last {
			t.Fatalf("ListActive not strictly increasing: %d after %d", ticket.ID, last)
		}
		last = ticket.ID
	}
}
