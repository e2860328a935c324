// Package engine implements the reconciliation engine that owns the two
// lead collections and every mutation against them.
//
// The engine is the single writable source of truth: pollers feed snapshots
// in through LoadOpen/LoadClosed, user actions come in through the mutation
// operations, and every reader gets a by-value copy. Remote writes are
// optimistic; the local state is applied first and the backend is informed
// best-effort afterwards.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/model"
	"github.com/renovadesk/renova/internal/phone"
	"github.com/renovadesk/renova/internal/service"
)

// Engine reconciles the open and closed lead collections against remote
// snapshots and user-initiated mutations.
type Engine struct {
	remote service.RemoteClient

	mu       sync.Mutex
	open     []model.Lead
	closed   []model.ClosedLead
	users    []model.User
	pinnedID int
}

// New creates a reconciliation engine backed by the given remote client.
func New(remote service.RemoteClient) *Engine {
	return &Engine{remote: remote}
}

// Pin marks a lead as the active detail view. While pinned, background
// snapshot loads preserve its local copy so an in-progress edit cannot be
// clobbered by a poll.
func (e *Engine) Pin(leadID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinnedID = leadID
}

// Unpin clears the active detail view marker.
func (e *Engine) Unpin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinnedID = 0
}

// LoadOpen replaces the open collection with a polled snapshot. A pinned
// lead keeps its local copy verbatim; everything else takes the snapshot's
// version.
func (e *Engine) LoadOpen(snapshot []model.Lead) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pinned *model.Lead
	if e.pinnedID != 0 {
		for i := range e.open {
			if e.open[i].ID == e.pinnedID {
				copied := e.open[i]
				pinned = &copied
				break
			}
		}
	}

	next := make([]model.Lead, len(snapshot))
	copy(next, snapshot)

	if pinned != nil {
		replaced := false
		for i := range next {
			if next[i].ID == pinned.ID {
				next[i] = *pinned
				replaced = true
				break
			}
		}
		if !replaced {
			// The snapshot no longer carries the pinned row; keep the local
			// copy anyway so the open detail view stays editable.
			next = append(next, *pinned)
		}
	}

	e.open = next
}

// LoadClosed unconditionally replaces the closed collection with a polled
// snapshot. Closed rows have no detail-edit flow, so no pinning applies.
func (e *Engine) LoadClosed(snapshot []model.ClosedLead) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = make([]model.ClosedLead, len(snapshot))
	copy(e.closed, snapshot)
}

// LoadUsers replaces the cached user list.
func (e *Engine) LoadUsers(users []model.User) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.users = make([]model.User, len(users))
	copy(e.users, users)
}

// OpenLeads returns a copy of the open collection.
func (e *Engine) OpenLeads() []model.Lead {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Lead, len(e.open))
	copy(out, e.open)
	return out
}

// ClosedLeads returns a copy of the closed collection.
func (e *Engine) ClosedLeads() []model.ClosedLead {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ClosedLead, len(e.closed))
	copy(out, e.closed)
	return out
}

// Users returns a copy of the cached user list.
func (e *Engine) Users() []model.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.User, len(e.users))
	copy(out, e.users)
	return out
}

// ApplyStatus records a status change on the open lead matching phoneNumber.
// A terminal Fechado status additionally promotes the lead into the closed
// collection. Promotion is idempotent: an existing closed row for the same
// phone is updated in place, never duplicated.
func (e *Engine) ApplyStatus(leadID int, status model.Status, phoneNumber string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyStatusLocked(leadID, status, phoneNumber)
}

func (e *Engine) applyStatusLocked(leadID int, status model.Status, phoneNumber string) {
	lead := e.findOpenByPhoneLocked(phoneNumber)
	if lead == nil {
		slog.Warn("Status change for unknown lead, skipping",
			"lead_id", leadID, "phone", phoneNumber, "status", status)
		return
	}

	lead.Status = status
	lead.Confirmed = status.IsConfirmed()
	if date, ok := status.ScheduledDate(); ok {
		lead.SchedulingDate = date.Format("2006-01-02")
	}

	if status.IsClosed() {
		e.promoteLocked(*lead)
	}
}

// promoteLocked mirrors an open lead into the closed collection.
func (e *Engine) promoteLocked(lead model.Lead) {
	for i := range e.closed {
		if phone.Equal(e.closed[i].Phone, lead.Phone) {
			e.closed[i].Status = model.StatusClosed
			e.closed[i].Insurer = lead.Insurer
			e.closed[i].InsurerConfirmed = lead.InsurerConfirmed
			return
		}
	}

	e.closed = append(e.closed, model.ClosedLead{
		ID:               e.nextClosedIDLocked(lead.ID),
		Name:             lead.Name,
		VehicleModel:     lead.VehicleModel,
		VehicleYearModel: lead.VehicleYearModel,
		Phone:            lead.Phone,
		Status:           model.StatusClosed,
		Insurer:          lead.Insurer,
		InsurerConfirmed: lead.InsurerConfirmed,
		AssigneeName:     lead.AssigneeName,
		NetPremium:       lead.NetPremium,
		CommissionPct:    lead.CommissionPct,
		InstallmentPlan:  lead.InstallmentPlan,
		PeriodStart:      lead.PeriodStart,
		PeriodEnd:        lead.PeriodEnd,
		Notes:            lead.Notes,
	})
}

// nextClosedIDLocked reuses the open lead's id when free, otherwise picks
// the next id above everything the closed collection already holds.
func (e *Engine) nextClosedIDLocked(candidate int) int {
	max := 0
	taken := false
	for i := range e.closed {
		if e.closed[i].ID == candidate {
			taken = true
		}
		if e.closed[i].ID > max {
			max = e.closed[i].ID
		}
	}
	if candidate > 0 && !taken {
		return candidate
	}
	return max + 1
}

// ConfirmInsurer records confirmed insurer terms on a closed lead,
// optimistically first, then writes through to the backend. A successful
// remote write triggers a fresh closed poll to reconcile; a failed one keeps
// the optimistic local state and surfaces the error for UI feedback.
func (e *Engine) ConfirmInsurer(ctx context.Context, leadID int, insurer, premium, commission, installments, periodEnd, periodStart string) error {
	e.mu.Lock()
	var target *model.ClosedLead
	for i := range e.closed {
		if e.closed[i].ID == leadID {
			target = &e.closed[i]
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return fmt.Errorf("closed lead %d: %w", leadID, common.ErrNotFound)
	}

	target.Insurer = insurer
	target.NetPremium = premium
	target.CommissionPct = commission
	target.InstallmentPlan = installments
	target.PeriodEnd = periodEnd
	target.PeriodStart = periodStart
	target.InsurerConfirmed = true
	updated := *target
	e.mu.Unlock()

	if err := e.remote.ConfirmInsurer(ctx, updated); err != nil {
		// Local state stays as applied; the next successful confirmation or
		// poll reconciles it.
		return common.NewUserError("não foi possível confirmar a seguradora no servidor", err)
	}

	snapshot, err := e.remote.FetchClosedLeads(ctx)
	if err != nil {
		slog.Warn("Post-confirmation reconciliation poll failed", "error", err)
		return nil
	}
	e.LoadClosed(snapshot)
	return nil
}

// UpdateInsurerOnOpen changes an open lead's insurer and clears its quoted
// terms. A different insurer invalidates any previously quoted premium,
// commission and policy period.
func (e *Engine) UpdateInsurerOnOpen(leadID int, insurer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.open {
		if e.open[i].ID == leadID {
			e.open[i].Insurer = insurer
			e.open[i].NetPremium = ""
			e.open[i].CommissionPct = ""
			e.open[i].PeriodStart = ""
			e.open[i].PeriodEnd = ""
			return nil
		}
	}
	return fmt.Errorf("open lead %d: %w", leadID, common.ErrNotFound)
}

// TransferAssignee reassigns an open lead. A nil userID clears the
// assignment. An id that does not resolve against the current user list is
// treated as a stale reference and ignored: the user list is polled
// independently and may be momentarily behind.
func (e *Engine) TransferAssignee(leadID int, userID *int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var lead *model.Lead
	for i := range e.open {
		if e.open[i].ID == leadID {
			lead = &e.open[i]
			break
		}
	}
	if lead == nil {
		slog.Warn("Assignee transfer for unknown lead, skipping", "lead_id", leadID)
		return
	}

	if userID == nil {
		lead.AssigneeID = 0
		lead.AssigneeName = ""
		return
	}

	for _, u := range e.users {
		if u.ID == *userID && u.IsActive() {
			lead.AssigneeID = u.ID
			lead.AssigneeName = u.DisplayName
			return
		}
	}
	slog.Debug("Assignee id did not resolve, keeping current assignment",
		"lead_id", leadID, "user_id", *userID)
}

// AddLead inserts a new lead at the front of the open collection. Inserting
// an id the collection already holds is a silent no-op, which makes manual
// creation idempotent against a racing poll.
func (e *Engine) AddLead(lead model.Lead) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.open {
		if e.open[i].ID == lead.ID {
			return
		}
	}
	e.open = append([]model.Lead{lead}, e.open...)
}

// SaveNote updates a lead's note locally and pushes it to the backend
// best-effort.
func (e *Engine) SaveNote(ctx context.Context, leadID int, note string) {
	e.mu.Lock()
	for i := range e.open {
		if e.open[i].ID == leadID {
			e.open[i].Notes = note
			break
		}
	}
	e.mu.Unlock()

	if err := e.remote.SaveNote(ctx, leadID, note); err != nil {
		slog.Warn("Failed to save note remotely, local copy kept",
			"lead_id", leadID, "error", err)
	}
}

func (e *Engine) findOpenByPhoneLocked(phoneNumber string) *model.Lead {
	for i := range e.open {
		if phone.Equal(e.open[i].Phone, phoneNumber) {
			return &e.open[i]
		}
	}
	return nil
}
