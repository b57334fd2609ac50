// Package engine implements the conversational state machine driving the
// support-ticket flows. Each inbound event is interpreted against the
// sender's session state, may create or resolve a ticket, and emits
// outbound messages through the notifier. Events for the same user are
// processed to completion in order; distinct users proceed concurrently.
package engine

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/faq"
	"github.com/spec-kit/support-router/internal/notify"
	"github.com/spec-kit/support-router/internal/observability"
	"github.com/spec-kit/support-router/internal/service"
	"github.com/spec-kit/support-router/internal/session"
	"github.com/spec-kit/support-router/pkg/util"
)

// Event is one inbound chat event: a command, a menu selection or free
// text, plus an optional callback payload (FAQ selections).
type Event struct {
	UserID   int64
	Text     string
	Callback string
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Sessions    session.Store
	Tickets     *service.TicketService
	Notifier    notify.Notifier
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	AdminChatID int64
}

// Engine owns and mutates sessions; ticket records are owned by the
// ticket service underneath.
type Engine struct {
	sessions    session.Store
	tickets     *service.TicketService
	notifier    notify.Notifier
	logger      *zap.Logger
	metrics     *observability.Metrics
	adminChatID int64

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// New constructs the engine.
func New(deps Dependencies) *Engine {
	return &Engine{
		sessions:    deps.Sessions,
		tickets:     deps.Tickets,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		adminChatID: deps.AdminChatID,
		userLocks:   make(map[int64]*sync.Mutex),
	}
}

// HandleEvent processes one inbound event to completion, including store
// mutations and outbound notifications. Returned errors are infrastructure
// failures; conversational errors are answered in-band and do not surface.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) error {
	unlock := e.lockUser(ev.UserID)
	defer unlock()

	if ev.Callback != "" {
		return e.handleCallback(ctx, ev)
	}
	return e.handleText(ctx, ev)
}

// lockUser serializes events per user id.
func (e *Engine) lockUser(userID int64) func() {
	e.mu.Lock()
	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (e *Engine) handleCallback(ctx context.Context, ev Event) error {
	if id, ok := strings.CutPrefix(ev.Callback, faqCallbackPref); ok {
		entry, found := faq.Lookup(id)
		if !found {
			e.reply(ctx, ev.UserID, faqNotFound)
			return nil
		}
		e.metrics.RecordEngineEvent("faq", "ok")
		e.reply(ctx, ev.UserID, faqAnswer(entry))
		return nil
	}

	e.metrics.RecordError("engine", util.CodeSessionState)
	e.logger.Debug("unrecognized callback",
		zap.Int64("user_id", ev.UserID),
		zap.String("data", ev.Callback))
	return nil
}

func (e *Engine) handleText(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)

	// Commands match in any conversational state, as entry points.
	if strings.HasPrefix(text, "/") {
		return e.handleCommand(ctx, ev.UserID, text)
	}

	sess, err := e.sessions.Get(ctx, ev.UserID)
	if err != nil {
		return err
	}

	// Once the operator entered the resolving state, subsequent free text
	// is trusted as coming from that admin session; authorization was
	// checked at the /resolve entry point.
	if sess.AdminState == domain.AdminStateAwaitingResolution && ev.UserID == e.adminChatID {
		return e.finishResolution(ctx, ev.UserID, sess, text)
	}

	switch sess.State {
	case domain.UserStateIdle:
		return e.handleIdle(ctx, ev.UserID, sess, text)
	case domain.UserStateAwaitingDepartment:
		return e.handleDepartmentChoice(ctx, ev.UserID, sess, text)
	case domain.UserStateAwaitingTicketText:
		return e.handleTicketText(ctx, ev.UserID, sess, text)
	default:
		// Unknown state from an old session payload: reset.
		if err := e.sessions.Clear(ctx, ev.UserID); err != nil {
			return err
		}
		e.reply(ctx, ev.UserID, welcomeMessage)
		return nil
	}
}

func (e *Engine) handleCommand(ctx context.Context, userID int64, text string) error {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/start":
		e.metrics.RecordEngineEvent("start", "ok")
		e.reply(ctx, userID, welcomeMessage)
		return nil
	case "/requests":
		return e.handleListRequests(ctx, userID)
	case "/resolve":
		return e.handleResolveCommand(ctx, userID, fields)
	default:
		e.metrics.RecordError("engine", util.CodeSessionState)
		e.reply(ctx, userID, unknownCommand)
		return nil
	}
}

func (e *Engine) handleListRequests(ctx context.Context, userID int64) error {
	if userID != e.adminChatID {
		e.metrics.RecordError("engine", util.CodeUnauthorized)
		e.reply(ctx, userID, noAccessMessage)
		return nil
	}

	tickets, err := e.tickets.ListActive(ctx)
	if err != nil {
		return err
	}
	e.metrics.RecordEngineEvent("requests", "ok")
	e.reply(ctx, userID, formatTicketList(tickets))
	return nil
}

func (e *Engine) handleResolveCommand(ctx context.Context, userID int64, fields []string) error {
	if userID != e.adminChatID {
		e.metrics.RecordError("engine", util.CodeUnauthorized)
		e.reply(ctx, userID, noAccessMessage)
		return nil
	}

	// Exactly one argument, a numeric ticket id. Failures are answered
	// in-band with no state change.
	if len(fields) != 2 {
		e.metrics.RecordError("engine", util.CodeValidation)
		e.reply(ctx, userID, resolveUsage)
		return nil
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		e.metrics.RecordError("engine", util.CodeValidation)
		e.reply(ctx, userID, resolveBadID)
		return nil
	}

	if _, err := e.tickets.Get(ctx, id); err != nil {
		if util.IsCode(err, util.CodeNotFound) {
			e.metrics.RecordError("engine", util.CodeNotFound)
			e.reply(ctx, userID, ticketMissing(id))
			return nil
		}
		return err
	}

	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return err
	}
	sess.AdminState = domain.AdminStateAwaitingResolution
	sess.PendingTicketID = id
	if err := e.sessions.Set(ctx, userID, sess); err != nil {
		return err
	}
	e.reply(ctx, userID, resolvePrompt(id))
	return nil
}

func (e *Engine) finishResolution(ctx context.Context, userID int64, sess domain.Session, text string) error {
	id := sess.PendingTicketID

	sess.AdminState = domain.AdminStateIdle
	sess.PendingTicketID = 0
	if err := e.sessions.Set(ctx, userID, sess); err != nil {
		return err
	}

	if _, err := e.tickets.Resolve(ctx, id, text); err != nil {
		if util.IsCode(err, util.CodeNotFound) {
			e.metrics.RecordError("engine", util.CodeNotFound)
			e.reply(ctx, userID, ticketMissing(id))
			return nil
		}
		return err
	}

	e.metrics.RecordEngineEvent("resolve", "ok")
	e.reply(ctx, userID, ticketClosed(id))
	return nil
}

func (e *Engine) handleIdle(ctx context.Context, userID int64, sess domain.Session, text string) error {
	switch text {
	case labelFAQ:
		e.metrics.RecordEngineEvent("faq_menu", "ok")
		e.reply(ctx, userID, faqMenu())
		return nil
	case labelContact:
		sess.State = domain.UserStateAwaitingDepartment
		if err := e.sessions.Set(ctx, userID, sess); err != nil {
			return err
		}
		e.reply(ctx, userID, departmentPrompt)
		return nil
	default:
		// No transition matches idle free text: re-show the main menu.
		e.metrics.RecordError("engine", util.CodeSessionState)
		e.reply(ctx, userID, welcomeMessage)
		return nil
	}
}

func (e *Engine) handleDepartmentChoice(ctx context.Context, userID int64, sess domain.Session, text string) error {
	if text == labelBack {
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return err
		}
		e.reply(ctx, userID, welcomeMessage)
		return nil
	}

	dept, ok := departmentLabels[text]
	if !ok {
		// Unrecognized label: keep the state and re-prompt the menu.
		e.metrics.RecordError("engine", util.CodeSessionState)
		e.reply(ctx, userID, departmentPrompt)
		return nil
	}

	sess.State = domain.UserStateAwaitingTicketText
	sess.PendingDepartment = dept
	if err := e.sessions.Set(ctx, userID, sess); err != nil {
		return err
	}
	e.reply(ctx, userID, requestPrompt(dept))
	return nil
}

func (e *Engine) handleTicketText(ctx context.Context, userID int64, sess domain.Session, text string) error {
	if text == labelCancel {
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return err
		}
		e.reply(ctx, userID, welcomeMessage)
		return nil
	}

	dept := sess.PendingDepartment
	if !dept.Valid() {
		e.metrics.RecordError("engine", util.CodeSessionState)
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return err
		}
		e.reply(ctx, userID, departmentLost)
		return nil
	}

	if _, err := e.tickets.Create(ctx, userID, text, dept); err != nil {
		if util.IsCode(err, util.CodeValidation) {
			// Corrective message, no state change: the user may retry.
			e.metrics.RecordError("engine", util.CodeValidation)
			e.reply(ctx, userID, emptyRequest)
			return nil
		}
		return err
	}

	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	e.metrics.RecordEngineEvent("ticket_created", "ok")
	e.reply(ctx, userID, ticketConfirmation(dept))
	return nil
}

// reply sends to the requester. Delivery is fire-and-forget: failures are
// logged and never fail the event that produced them.
func (e *Engine) reply(ctx context.Context, chatID int64, text string) {
	if err := e.notifier.Send(ctx, chatID, text); err != nil {
		e.metrics.RecordError("engine", "DELIVERY")
		e.logger.Error("reply delivery failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
