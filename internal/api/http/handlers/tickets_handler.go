package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/overseer/internal/api/dto"
	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/overseer"
	"github.com/spec-kit/overseer/internal/repository"
	"github.com/spec-kit/overseer/pkg/util"
)

// TicketsHandler exposes submission and read endpoints for tickets.
type TicketsHandler struct {
	overseer *overseer.Overseer
	tickets  repository.TicketRepository
	runs     repository.RunRepository
	audits   repository.AuditRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(orchestrator *overseer.Overseer, tickets repository.TicketRepository, runs repository.RunRepository, audits repository.AuditRepository) *TicketsHandler {
	return &TicketsHandler{
		overseer: orchestrator,
		tickets:  tickets,
		runs:     runs,
		audits:   audits,
	}
}

// Submit POST /tickets. Runs the full workflow synchronously and returns the
// terminal run alongside the ticket.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	result, err := h.overseer.Submit(c.UserContext(), domain.TicketSubmission{
		UserEmail:   strings.TrimSpace(req.UserEmail),
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SubmitTicketResponse{
		Ticket: ticketSummary(result.Ticket),
		Run:    runResponse(result.Run),
	}})
}

// Get GET /tickets/:key. Accepts either the internal id or the external key.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.fetchTicket(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	tickets, err := h.tickets.ListRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRun GET /tickets/:key/run. Returns the latest terminal run.
func (h *TicketsHandler) GetRun(c *fiber.Ctx) error {
	ticket, err := h.fetchTicket(c)
	if err != nil {
		return err
	}
	run, err := h.runs.GetByTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"data": runResponse(run)})
}

// GetAudit GET /tickets/:key/audit.
func (h *TicketsHandler) GetAudit(c *fiber.Ctx) error {
	ticket, err := h.fetchTicket(c)
	if err != nil {
		return err
	}
	entries, err := h.audits.ListByTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditResponses(entries)})
}

func (h *TicketsHandler) fetchTicket(c *fiber.Ctx) (*domain.Ticket, error) {
	key := c.Params("key")
	if key == "" {
		return nil, util.NewValidationError("ticket key required", nil)
	}

	var (
		ticket *domain.Ticket
		err    error
	)
	if strings.HasPrefix(key, "TKT-") {
		ticket, err = h.tickets.GetByExternalKey(c.UserContext(), key)
	} else {
		ticket, err = h.tickets.GetByID(c.UserContext(), key)
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	return ticket, nil
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		ExternalKey: ticket.ExternalKey,
		UserEmail:   ticket.UserEmail,
		Subject:     ticket.Subject,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func runResponse(run *domain.WorkflowRun) dto.WorkflowRunResponse {
	return dto.WorkflowRunResponse{
		RunID:          run.ID,
		Status:         run.Status,
		FailureReason:  run.FailureReason,
		Classification: run.Classification,
		Diagnosis:      run.Diagnosis,
		RetrievedDocs:  run.RetrievedDocs,
		Solution:       run.Solution,
		Verdict:        run.Verdict,
		Assignments:    run.Assignments,
		Audit:          auditResponses(run.Audit),
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}

func auditResponses(entries []domain.AuditEntry) []dto.AuditEntryResponse {
	resp := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.AuditEntryResponse{
			Stage:        entry.Stage,
			Outcome:      entry.Outcome,
			AttemptCount: entry.AttemptCount,
			Note:         entry.Note,
			StartedAt:    entry.StartedAt,
			FinishedAt:   entry.FinishedAt,
		})
	}
	return resp
}
