package domain

// UserState enumerates end-user conversational states.
type UserState string

const (
	UserStateIdle               UserState = "idle"
	UserStateAwaitingDepartment UserState = "awaiting_department_choice"
	UserStateAwaitingTicketText UserState = "awaiting_ticket_text"
)

// AdminState enumerates operator conversational states.
type AdminState string

const (
	AdminStateIdle               AdminState = "idle"
	AdminStateAwaitingResolution AdminState = "awaiting_resolution_text"
)

// Session holds transient per-user conversational state. It buffers
// in-progress flows only; committed data lives in the ticket store.
// JSON tags support the Redis-backed session store.
type Session struct {
	State             UserState  `json:"state"`
	PendingDepartment Department `json:"pending_department,omitempty"`
	AdminState        AdminState `json:"admin_state"`
	PendingTicketID   int64      `json:"pending_ticket_id,omitempty"`
}

// NewSession returns the default idle session.
func NewSession() Session {
	return Session{State: UserStateIdle, AdminState: AdminStateIdle}
}
