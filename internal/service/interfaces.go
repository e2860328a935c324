// Package service defines the interfaces between the engine, the remote
// script endpoint, and the local session store.
package service

import (
	"context"
	"time"

	"github.com/renovadesk/renova/internal/model"
)

// RemoteClient is the contract for the script endpoint in front of the
// spreadsheet backend. Reads return the full collection each time; writes
// follow the endpoint's action-discriminated POST protocol.
type RemoteClient interface {
	// Collection reads.
	FetchLeads(ctx context.Context) ([]model.Lead, error)
	FetchClosedLeads(ctx context.Context) ([]model.ClosedLead, error)
	FetchUsers(ctx context.Context) ([]model.User, error)

	// Scalar metrics. These never fail; an unreachable endpoint yields 0
	// (the transport degrades through its fallback chain first).
	FetchGoal(ctx context.Context) float64
	FetchProgress(ctx context.Context) float64

	// Writes.
	NotifyStatus(ctx context.Context, leadID int, status model.Status, phone string) error
	ConfirmInsurer(ctx context.Context, lead model.ClosedLead) error
	SaveNote(ctx context.Context, leadID int, note string) error
	SaveSchedule(ctx context.Context, leadID int, date time.Time) error
	SetGoal(ctx context.Context, total float64) error
}

// SessionStore persists the small amount of state that must survive a
// restart: the last-fetched user list and the authenticated session marker.
// Both are overwritten wholesale on each write.
type SessionStore interface {
	SaveUsers(ctx context.Context, users []model.User) error
	LoadUsers(ctx context.Context) ([]model.User, error)
	SaveSession(ctx context.Context, username string) error
	LoadSession(ctx context.Context) (string, error)
	ClearSession(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for transport reads.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
