package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/zammad-reconcile/internal/lookup"
	"github.com/spec-kit/zammad-reconcile/internal/zammad"
)

// DefaultCloseState is the target state when the caller does not name one.
const DefaultCloseState = "closed"

// Result is the complete contract the calling automation relies on.
type Result struct {
	Changed    bool   `json:"changed"`
	TicketID   int    `json:"ticket_id"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// Reconciler compares desired ticket state to observed remote state and
// issues at most one write to converge them.
type Reconciler struct {
	client *zammad.Client
	logger *zap.Logger
	dryRun bool
}

// Dependencies bundles what a Reconciler needs.
type Dependencies struct {
	Client *zammad.Client
	Logger *zap.Logger
	DryRun bool
}

// New constructs the reconciler.
func New(deps Dependencies) *Reconciler {
	return &Reconciler{
		client: deps.Client,
		logger: deps.Logger,
		dryRun: deps.DryRun,
	}
}

// Run resolves the requested operation, validates its required fields
// before touching the network, and dispatches it. Every failure is
// terminal; nothing is retried.
func (r *Reconciler) Run(ctx context.Context, in Input) (*Result, error) {
	op, err := ResolveOperation(in)
	if err != nil {
		return nil, err
	}
	if err := validate(op, in); err != nil {
		return nil, err
	}

	r.logger.Info("reconciling", zap.Stringer("operation", op), zap.Bool("dry_run", r.dryRun))

	switch op {
	case OpCreate:
		return r.create(ctx, in)
	case OpUpdate:
		return r.update(ctx, in)
	case OpClose:
		return r.close(ctx, in)
	case OpAssociateExternalID:
		return r.associateExternalID(ctx, in)
	default:
		return nil, fmt.Errorf("unhandled operation %s", op)
	}
}

// create always performs exactly one POST and always reports changed.
func (r *Reconciler) create(ctx context.Context, in Input) (*Result, error) {
	if r.dryRun {
		return &Result{Changed: true, Message: "Ticket would be created."}, nil
	}

	ticket, status, err := r.client.CreateTicket(ctx, in.Desired.CreatePayload())
	if err != nil {
		return nil, err
	}
	r.logger.Info("ticket created", zap.Int("ticket_id", ticket.ID))
	return &Result{
		Changed:    true,
		TicketID:   ticket.ID,
		StatusCode: status,
		Message:    "Ticket created successfully.",
	}, nil
}

// update fetches the remote ticket, its latest article, and all reference
// collections, resolves everything to name representation, and writes only
// when at least one desired field differs.
func (r *Reconciler) update(ctx context.Context, in Input) (*Result, error) {
	ticketID := *in.TicketID

	ticket, getStatus, err := r.client.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	articles, err := r.client.ArticlesByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ref, err := lookup.Fetch(ctx, r.client)
	if err != nil {
		return nil, err
	}

	remote := BuildRemoteState(ticket, articles, ref, r.logger)
	changed := diff(in.Desired, remote)
	if len(changed) == 0 {
		r.logger.Info("ticket already converged", zap.Int("ticket_id", ticketID))
		return &Result{
			Changed:    false,
			TicketID:   ticketID,
			StatusCode: getStatus,
			Message:    "No changes required.",
		}, nil
	}

	r.logger.Info("ticket drifted", zap.Int("ticket_id", ticketID), zap.Strings("fields", changed))

	// Subject and internal only travel inside a replaced article, and an
	// article is only written when a body is supplied. When they are the
	// sole drift the payload comes out empty and a PUT would change
	// nothing, so skip the write instead of issuing it forever.
	payload := in.Desired.UpdatePayload(changed)
	if len(payload) == 0 {
		r.logger.Warn("drifted fields cannot be written without a body",
			zap.Int("ticket_id", ticketID), zap.Strings("fields", changed))
		return &Result{
			Changed:    false,
			TicketID:   ticketID,
			StatusCode: getStatus,
			Message:    "No changes written: subject and internal require a body.",
		}, nil
	}

	if r.dryRun {
		return &Result{
			Changed:    true,
			TicketID:   ticketID,
			StatusCode: getStatus,
			Message:    "Ticket would be updated.",
		}, nil
	}

	_, status, err := r.client.UpdateTicket(ctx, ticketID, payload)
	if err != nil {
		return nil, err
	}
	return &Result{
		Changed:    true,
		TicketID:   ticketID,
		StatusCode: status,
		Message:    "Ticket updated successfully.",
	}, nil
}

// close moves the ticket into the target state unless it is already there.
func (r *Reconciler) close(ctx context.Context, in Input) (*Result, error) {
	ticketID := *in.TicketID
	target := in.CloseState
	if target == "" {
		target = DefaultCloseState
	}

	ticket, getStatus, err := r.client.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	states, err := lookup.FetchStates(ctx, r.client)
	if err != nil {
		return nil, err
	}

	current, ok := states.NameByID(ticket.StateID)
	if !ok {
		r.logger.Warn("state id did not resolve", zap.Int("state_id", ticket.StateID))
	}
	if current == target {
		r.logger.Info("ticket already in target state", zap.Int("ticket_id", ticketID), zap.String("state", target))
		return &Result{
			Changed:    false,
			TicketID:   ticketID,
			StatusCode: getStatus,
			Message:    "No changes required.",
		}, nil
	}

	if r.dryRun {
		return &Result{
			Changed:    true,
			TicketID:   ticketID,
			StatusCode: getStatus,
			Message:    "Ticket would be closed.",
		}, nil
	}

	_, status, err := r.client.UpdateTicket(ctx, ticketID, map[string]any{"state": target})
	if err != nil {
		return nil, err
	}
	return &Result{
		Changed:    true,
		TicketID:   ticketID,
		StatusCode: status,
		Message:    "Ticket closed successfully.",
	}, nil
}

// associateExternalID merges one i-doit object id into the ticket's
// preferences. There is no diffing; the operation always issues exactly
// one PUT and always reports changed.
func (r *Reconciler) associateExternalID(ctx context.Context, in Input) (*Result, error) {
	ticketID := *in.TicketID

	if r.dryRun {
		return &Result{
			Changed:  true,
			TicketID: ticketID,
			Message:  "External object would be associated.",
		}, nil
	}

	payload := map[string]any{
		"preferences": map[string]any{
			"idoit": map[string]any{
				"object_ids": []string{in.ObjectID},
			},
		},
	}
	_, status, err := r.client.UpdateTicket(ctx, ticketID, payload)
	if err != nil {
		return nil, err
	}
	r.logger.Info("external object associated", zap.Int("ticket_id", ticketID), zap.String("object_id", in.ObjectID))
	return &Result{
		Changed:    true,
		TicketID:   ticketID,
		StatusCode: status,
		Message:    "External object associated successfully.",
	}, nil
}
