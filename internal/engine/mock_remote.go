package engine

import (
	"context"
	"sync"
	"time"

	"github.com/renovadesk/renova/internal/model"
)

// mockRemote records every write the engine issues and serves canned
// snapshots, so tests can assert on the optimistic-then-sync ordering.
type mockRemote struct {
	mu sync.Mutex

	statusCalls  []mockStatusCall
	noteCalls    []mockNoteCall
	scheduleDays []time.Time

	confirmCalls []model.ClosedLead
	confirmErr   error

	closedSnapshot []model.ClosedLead
	fetchClosedErr error
}

type mockStatusCall struct {
	LeadID int
	Status model.Status
	Phone  string
}

type mockNoteCall struct {
	LeadID int
	Note   string
}

func (m *mockRemote) FetchLeads(_ context.Context) ([]model.Lead, error) {
	return nil, nil
}

func (m *mockRemote) FetchClosedLeads(_ context.Context) ([]model.ClosedLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchClosedErr != nil {
		return nil, m.fetchClosedErr
	}
	out := make([]model.ClosedLead, len(m.closedSnapshot))
	copy(out, m.closedSnapshot)
	return out, nil
}

func (m *mockRemote) FetchUsers(_ context.Context) ([]model.User, error) {
	return nil, nil
}

func (m *mockRemote) FetchGoal(_ context.Context) float64 { return 0 }

func (m *mockRemote) FetchProgress(_ context.Context) float64 { return 0 }

func (m *mockRemote) NotifyStatus(_ context.Context, leadID int, status model.Status, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls = append(m.statusCalls, mockStatusCall{LeadID: leadID, Status: status, Phone: phone})
	return nil
}

func (m *mockRemote) ConfirmInsurer(_ context.Context, lead model.ClosedLead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmCalls = append(m.confirmCalls, lead)
	return m.confirmErr
}

func (m *mockRemote) SaveNote(_ context.Context, leadID int, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noteCalls = append(m.noteCalls, mockNoteCall{LeadID: leadID, Note: note})
	return nil
}

func (m *mockRemote) SaveSchedule(_ context.Context, _ int, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleDays = append(m.scheduleDays, date)
	return nil
}

func (m *mockRemote) SetGoal(_ context.Context, _ float64) error { return nil }
