package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/model"
)

// The status machine: a lead starts unset and moves into exactly one of the
// named states (Agendado with a date, Em contato, Sem contato, Fechado,
// Perdido). Entering any named state locks the selector; Reopen is the only
// way back. The backend is informed of every transition except Reopen, and
// only best-effort: the local state is the UI's source of truth.

// ConfirmStatus validates and applies a user-initiated status transition,
// then notifies the backend. The sentinel "not selected" value is rejected
// before anything happens. Remote delivery failure is logged, never rolled
// back.
func (e *Engine) ConfirmStatus(ctx context.Context, leadID int, status model.Status, phoneNumber string) error {
	if status.IsUnset() {
		return common.NewUserError("selecione um status antes de confirmar", common.ErrInvalidStatus)
	}

	e.ApplyStatus(leadID, status, phoneNumber)
	e.notifyStatus(ctx, leadID, status, phoneNumber)
	return nil
}

// Schedule confirms the Agendado status for a concrete date and persists the
// scheduling cell alongside the status.
func (e *Engine) Schedule(ctx context.Context, leadID int, date time.Time, phoneNumber string) error {
	status := model.ScheduledLabel(date)

	e.ApplyStatus(leadID, status, phoneNumber)
	e.notifyStatus(ctx, leadID, status, phoneNumber)

	if err := e.remote.SaveSchedule(ctx, leadID, date); err != nil {
		slog.Warn("Failed to save scheduling date remotely, local copy kept",
			"lead_id", leadID, "error", err)
	}
	return nil
}

// Reopen returns a lead to the unset state so its status can be selected
// again. This is a purely local correction; the backend is not contacted.
func (e *Engine) Reopen(leadID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.open {
		if e.open[i].ID == leadID {
			e.open[i].Status = model.StatusUnset
			e.open[i].Confirmed = false
			return
		}
	}
	slog.Warn("Reopen for unknown lead, skipping", "lead_id", leadID)
}

func (e *Engine) notifyStatus(ctx context.Context, leadID int, status model.Status, phoneNumber string) {
	if err := e.remote.NotifyStatus(ctx, leadID, status, phoneNumber); err != nil {
		slog.Warn("Failed to notify backend of status change, local state kept",
			"lead_id", leadID, "status", status, "error", err)
	}
}
