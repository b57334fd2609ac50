package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/observability"
	"github.com/spec-kit/support-router/internal/repository"
	"github.com/spec-kit/support-router/internal/service"
	"github.com/spec-kit/support-router/internal/session"
)

const (
	adminID = int64(99)
	userID  = int64(10)
)

type sentMessage struct {
	chatID int64
	text   string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *captureNotifier) Send(ctx context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (n *captureNotifier) messagesTo(chatID int64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, msg := range n.sent {
		if msg.chatID == chatID {
			out = append(out, msg.text)
		}
	}
	return out
}

func (n *captureNotifier) lastTo(t *testing.T, chatID int64) string {
	t.Helper()
	msgs := n.messagesTo(chatID)
	if len(msgs) == 0 {
		t.Fatalf("no messages sent to %d", chatID)
	}
	return msgs[len(msgs)-1]
}

func (n *captureNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type testHarness struct {
	engine   *Engine
	notifier *captureNotifier
	sessions session.Store
	repo     *repository.MemoryTicketRepository
	tickets  *service.TicketService
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	notifier := &captureNotifier{}
	repo := repository.NewMemoryTicketRepository()
	sessions := session.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
	})
	notifications := service.NewNotificationService(dispatcher, notifier, logger, metrics, adminID)
	notifications.RegisterHandlers()

	eng := New(Dependencies{
		Sessions:    sessions,
		Tickets:     tickets,
		Notifier:    notifier,
		Logger:      logger,
		Metrics:     metrics,
		AdminChatID: adminID,
	})

	return &testHarness{
		engine:   eng,
		notifier: notifier,
		sessions: sessions,
		repo:     repo,
		tickets:  tickets,
	}
}

func (h *testHarness) send(t *testing.T, from int64, text string) {
	t.Helper()
	if err := h.engine.HandleEvent(context.Background(), Event{UserID: from, Text: text}); err != nil {
		t.Fatalf("HandleEvent(%d, %q): %v", from, text, err)
	}
}

func (h *testHarness) sessionOf(t *testing.T, id int64) domain.Session {
	t.Helper()
	sess, err := h.sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("sessions.Get(%d): %v", id, err)
	}
	return sess
}

func (h *testHarness) activeCount(t *testing.T) int {
	t.Helper()
	active, err := h.repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	return len(active)
}

func TestUserTransitionTable(t *testing.T) {
	cases := []struct {
		name      string
		setup     []string
		input     string
		wantState domain.UserState
		wantDept  domain.Department
	}{
		{"idle start stays idle", nil, "/start", domain.UserStateIdle, ""},
		{"idle faq stays idle", nil, "FAQ", domain.UserStateIdle, ""},
		{"idle contact enters choice", nil, "Contact department", domain.UserStateAwaitingDepartment, ""},
		{"choice back returns idle", []string{"Contact department"}, "Back", domain.UserStateIdle, ""},
		{"choice support enters text", []string{"Contact department"}, "Technical support", domain.UserStateAwaitingTicketText, domain.DepartmentSupport},
		{"choice sales enters text", []string{"Contact department"}, "Sales", domain.UserStateAwaitingTicketText, domain.DepartmentSales},
		{"choice unrecognized keeps state", []string{"Contact department"}, "what?", domain.UserStateAwaitingDepartment, ""},
		{"text cancel returns idle", []string{"Contact department", "Sales"}, "Cancel", domain.UserStateIdle, ""},
		{"text body returns idle", []string{"Contact department", "Sales"}, "where is my order", domain.UserStateIdle, ""},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t)
			for _, step := range tt.setup {
				h.send(t, userID, step)
			}
			h.send(t, userID, tt.input)

			sess := h.sessionOf(t, userID)
			if sess.State != tt.wantState {
				t.Fatalf("state %q, want %q", sess.State, tt.wantState)
			}
			if sess.PendingDepartment != tt.wantDept {
				t.Fatalf("pending department %q, want %q", sess.PendingDepartment, tt.wantDept)
			}
		})
	}
}

func TestUnrecognizedDepartmentReprompts(t *testing.T) {
	h := newTestHarness(t)
	h.send(t, userID, "Contact department")
	h.notifier.reset()

	h.send(t, userID, "gibberish")
	if got := h.notifier.lastTo(t, userID); got != departmentPrompt {
		t.Fatalf("reply %q, want department re-prompt", got)
	}
	if h.activeCount(t) != 0 {
		t.Fatal("unrecognized label must not create tickets")
	}
}

func TestTicketCreationScenario(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.send(t, userID, "Contact department")
	h.send(t, userID, "Technical support")
	h.send(t, userID, "My payment failed")

	ticket, err := h.repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ticket.Department != domain.DepartmentSupport {
		t.Fatalf("department %q, want support", ticket.Department)
	}
	if ticket.Status != domain.TicketStatusNew {
		t.Fatalf("status %q, want new", ticket.Status)
	}
	if ticket.UserID != userID {
		t.Fatalf("user id %d, want %d", ticket.UserID, userID)
	}

	adminMsgs := h.notifier.messagesTo(adminID)
	if len(adminMsgs) != 1 || !strings.Contains(adminMsgs[0], "My payment failed") {
		t.Fatalf("admin notification missing ticket text: %v", adminMsgs)
	}

	sess := h.sessionOf(t, userID)
	if sess.State != domain.UserStateIdle || sess.PendingDepartment != "" {
		t.Fatalf("session not reset after creation: %+v", sess)
	}
}

func TestResolveScenario(t *testing.T) {
	h := newTestHarness(t)

	h.send(t, userID, "Contact department")
	h.send(t, userID, "Technical support")
	h.send(t, userID, "My payment failed")
	h.notifier.reset()

	h.send(t, adminID, "/resolve 1")
	sess := h.sessionOf(t, adminID)
	if sess.AdminState != domain.AdminStateAwaitingResolution || sess.PendingTicketID != 1 {
		t.Fatalf("admin session after /resolve: %+v", sess)
	}

	h.send(t, adminID, "Fixed, please retry")

	ticket, err := h.repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("status %q, want resolved", ticket.Status)
	}

	userMsgs := h.notifier.messagesTo(userID)
	if len(userMsgs) != 1 || !strings.Contains(userMsgs[0], "Fixed, please retry") {
		t.Fatalf("requester did not receive resolution: %v", userMsgs)
	}

	if got := h.notifier.lastTo(t, adminID); got != ticketClosed(1) {
		t.Fatalf("admin confirmation %q", got)
	}

	sess = h.sessionOf(t, adminID)
	if sess.AdminState != domain.AdminStateIdle || sess.PendingTicketID != 0 {
		t.Fatalf("admin session not reset: %+v", sess)
	}
}

func TestResolveMissingTicket(t *testing.T) {
	h := newTestHarness(t)

	h.send(t, adminID, "/resolve 999")
	if got := h.notifier.lastTo(t, adminID); got != ticketMissing(999) {
		t.Fatalf("reply %q, want missing-ticket error", got)
	}

	sess := h.sessionOf(t, adminID)
	if sess.AdminState != domain.AdminStateIdle || sess.PendingTicketID != 0 {
		t.Fatalf("session changed on missing ticket: %+v", sess)
	}
}

func TestResolveArgumentErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"no argument", "/resolve", resolveUsage},
		{"extra arguments", "/resolve 1 2", resolveUsage},
		{"non-numeric id", "/resolve abc", resolveBadID},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t)
			h.send(t, adminID, tt.input)
			if got := h.notifier.lastTo(t, adminID); got != tt.want {
				t.Fatalf("reply %q, want %q", got, tt.want)
			}
			sess := h.sessionOf(t, adminID)
			if sess.AdminState != domain.AdminStateIdle {
				t.Fatalf("state changed on bad argument: %+v", sess)
			}
		})
	}
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	for _, cmd := range []string{"/requests", "/resolve 1"} {
		t.Run(cmd, func(t *testing.T) {
			h := newTestHarness(t)
			h.send(t, userID, cmd)
			if got := h.notifier.lastTo(t, userID); got != noAccessMessage {
				t.Fatalf("reply %q, want %q", got, noAccessMessage)
			}
			if h.activeCount(t) != 0 {
				t.Fatal("non-admin command mutated the ticket store")
			}
			sess := h.sessionOf(t, userID)
			if sess.State != domain.UserStateIdle || sess.AdminState != domain.AdminStateIdle {
				t.Fatalf("non-admin command changed session: %+v", sess)
			}
		})
	}
}

func TestRequestsListing(t *testing.T) {
	h := newTestHarness(t)

	h.send(t, adminID, "/requests")
	if got := h.notifier.lastTo(t, adminID); got != noActiveMessage {
		t.Fatalf("empty listing reply %q", got)
	}

	h.send(t, userID, "Contact department")
	h.send(t, userID, "Sales")
	h.send(t, userID, "refund please")
	h.notifier.reset()

	h.send(t, adminID, "/requests")
	got := h.notifier.lastTo(t, adminID)
	for _, want := range []string{"ID: 1", "refund please", "Department: sales", "Status: new"} {
		if !strings.Contains(got, want) {
			t.Fatalf("listing missing %q:\n%s", want, got)
		}
	}
}

func TestFAQCallback(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	if err := h.engine.HandleEvent(ctx, Event{UserID: userID, Callback: "faq:order"}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := h.notifier.lastTo(t, userID); !strings.Contains(got, "How do I place an order?") {
		t.Fatalf("faq answer %q", got)
	}

	if err := h.engine.HandleEvent(ctx, Event{UserID: userID, Callback: "faq:nope"}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := h.notifier.lastTo(t, userID); got != faqNotFound {
		t.Fatalf("unknown faq reply %q", got)
	}
}

func TestConcurrentUsersCreateDistinctTickets(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			from := 1000 + id
			steps := []string{"Contact department", "Technical support", "concurrent request"}
			for _, step := range steps {
				if err := h.engine.HandleEvent(ctx, Event{UserID: from, Text: step}); err != nil {
					t.Errorf("HandleEvent(%d): %v", from, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	active, err := h.repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 20 {
		t.Fatalf("created %d tickets, want 20", len(active))
	}
	seen := make(map[int64]bool)
	for _, ticket := range active {
		if seen[ticket.ID] {
			t.Fatalf("duplicate ticket id %d", ticket.ID)
		}
		seen[ticket.ID] = true
	}
}
