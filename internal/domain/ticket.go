package domain

import "time"

// Department enumerates the operator queues a ticket can be routed to.
type Department string

const (
	DepartmentSupport Department = "support"
	DepartmentSales   Department = "sales"
)

// Valid reports whether the department belongs to the closed set.
func (d Department) Valid() bool {
	switch d {
	case DepartmentSupport, DepartmentSales:
		return true
	}
	return false
}

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusProcessing TicketStatus = "processing"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Valid reports whether the status belongs to the closed set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusProcessing, TicketStatusResolved:
		return true
	}
	return false
}

var statusRank = map[TicketStatus]int{
	TicketStatusNew:        0,
	TicketStatusProcessing: 1,
	TicketStatusResolved:   2,
}

// CanTransition reports whether a status change moves strictly forward.
// Resolved is terminal; a ticket never regresses.
func CanTransition(current, next TicketStatus) bool {
	currentRank, ok := statusRank[current]
	if !ok {
		return false
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return false
	}
	return nextRank > currentRank
}

// Ticket is the aggregate for support requests. Department is assigned at
// creation and immutable afterwards.
type Ticket struct {
	ID         int64
	UserID     int64
	Text       string
	Department Department
	Status     TicketStatus
	CreatedAt  time.Time
}
