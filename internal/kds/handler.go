package kds

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerDeps bundles the handler collaborators.
type HandlerDeps struct {
	Board  *Board
	Clock  *Clock
	Client POSClient
	Syncer *Syncer
}

type Handler struct {
	board  *Board
	clock  *Clock
	client POSClient
	syncer *Syncer
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(deps HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		board:  deps.Board,
		clock:  deps.Clock,
		client: deps.Client,
		syncer: deps.Syncer,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/board", h.GetBoard)
	r.Get("/board/pending", h.GetPending)
	r.Route("/tickets/{id}", func(r chi.Router) {
		r.Patch("/courses/{course}/away", h.CallAway)
		r.Patch("/courses/{course}/sent", h.MarkSent)
		r.Patch("/bump", h.BumpTicket)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBoard")
	defer finish()

	tickets, fetchedAt := h.board.Snapshot()
	settings := h.board.Settings()
	now := h.clock.Now()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"tickets":    BuildBoard(tickets, settings, now),
		"fetched_at": fetchedAt,
		"now":        now,
	}, nil)
}

func (h *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetPending")
	defer finish()

	tickets, fetchedAt := h.board.Snapshot()
	settings := h.board.Settings()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"pending":    BuildPendingAggregate(tickets, settings.CourseOrder()),
		"fetched_at": fetchedAt,
	}, nil)
}

func (h *Handler) CallAway(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CallAway")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	ticket, course, ok := h.ticketAndCourse(w, r)
	if !ok {
		return
	}

	// Already away (or further along): idempotent success, no POS call.
	// Two staff double-tapping must not see an error for the same intent.
	if t := ticket.State(course); t.Status != coursestatus.Pending {
		h.respondTicket(w, &ticket)
		return
	}

	if err := CanCallAway(&ticket, course); err != nil {
		apt.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	if err := h.client.CallAway(ctx, ticket.ID, course); err != nil {
		h.respondCommandError(w, log, "call away", err)
		return
	}

	h.syncer.Kick()
	h.respondTicket(w, &ticket)
}

func (h *Handler) MarkSent(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkSent")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	ticket, course, ok := h.ticketAndCourse(w, r)
	if !ok {
		return
	}

	// Already sent or cleared: idempotent success. sent_at stays whatever
	// the POS recorded the first time.
	if ticket.State(course).Status.Served() {
		h.respondTicket(w, &ticket)
		return
	}

	if err := CanMarkSent(&ticket, course); err != nil {
		apt.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	if err := h.client.MarkSent(ctx, ticket.ID, course); err != nil {
		h.respondCommandError(w, log, "mark sent", err)
		return
	}

	h.syncer.Kick()
	h.respondTicket(w, &ticket)
}

func (h *Handler) BumpTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BumpTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	ticket, found := h.board.Ticket(id)
	if !found {
		apt.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	if err := CanBump(&ticket); err != nil {
		apt.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	if err := h.client.Bump(ctx, ticket.ID); err != nil {
		h.respondCommandError(w, log, "bump", err)
		return
	}

	h.syncer.Kick()
	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"ticket_id": ticket.ID,
		"bumped":    true,
	}, nil)
}

// ticketAndCourse resolves the {id} and {course} route params against the
// current snapshot.
func (h *Handler) ticketAndCourse(w http.ResponseWriter, r *http.Request) (Ticket, string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return Ticket{}, "", false
	}

	course := chi.URLParam(r, "course")
	if unescaped, err := url.PathUnescape(course); err == nil {
		course = unescaped
	}

	ticket, found := h.board.Ticket(id)
	if !found {
		apt.RespondError(w, http.StatusNotFound, "Ticket not found")
		return Ticket{}, "", false
	}

	if !ticket.HasCourse(course) {
		apt.RespondError(w, http.StatusNotFound, "Course not on ticket")
		return Ticket{}, "", false
	}

	return ticket, course, true
}

// respondTicket answers with the ticket's pre-request view. No optimistic
// transition: state changes arrive only through the next snapshot.
func (h *Handler) respondTicket(w http.ResponseWriter, t *Ticket) {
	settings := h.board.Settings()
	now := h.clock.Now()
	apt.Respond(w, http.StatusOK, BuildTicketView(t, settings, now), nil)
}

func (h *Handler) respondCommandError(w http.ResponseWriter, log apt.Logger, action string, err error) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		// The POS refused: usually a lost race, already resolved in the
		// winner's favor. Informational, not alarming.
		apt.RespondError(w, http.StatusConflict, cmdErr.Reason)
		return
	}
	log.Errorf("cannot %s: %v", action, err)
	apt.RespondError(w, http.StatusBadGateway, "Could not reach the point of sale")
}
