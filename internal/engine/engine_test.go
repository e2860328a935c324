package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/model"
)

func openLead(id int, phoneNumber string) model.Lead {
	return model.Lead{
		ID:            id,
		Name:          "Maria Souza",
		Phone:         phoneNumber,
		VehicleModel:  "Onix",
		City:          "Campinas",
		Insurer:       "Porto Seguro",
		NetPremium:    "2.400,00",
		CommissionPct: "15",
		PeriodStart:   "01/03/2026",
		PeriodEnd:     "01/03/2027",
	}
}

func TestApplyStatus_PromotionCreatesAndIsIdempotent(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	e.ApplyStatus(1, model.StatusClosed, "111")

	closed := e.ClosedLeads()
	require.Len(t, closed, 1)
	assert.Equal(t, model.StatusClosed, closed[0].Status)
	assert.Equal(t, "Maria Souza", closed[0].Name)
	assert.Equal(t, "2.400,00", closed[0].NetPremium)
	assert.Equal(t, "111", closed[0].Phone)

	// A second promotion for the same phone updates in place.
	e.ApplyStatus(1, model.StatusClosed, "111")
	assert.Len(t, e.ClosedLeads(), 1)
}

func TestApplyStatus_PromotionUpdatesExistingRow(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})
	e.LoadClosed([]model.ClosedLead{{
		ID:     7,
		Phone:  "111",
		Status: model.StatusUnset,
	}})

	e.ApplyStatus(1, model.StatusClosed, "111")

	closed := e.ClosedLeads()
	require.Len(t, closed, 1)
	assert.Equal(t, 7, closed[0].ID)
	assert.Equal(t, model.StatusClosed, closed[0].Status)
}

func TestApplyStatus_UnknownPhoneIsNoOp(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	e.ApplyStatus(1, model.StatusClosed, "999")

	assert.Empty(t, e.ClosedLeads())
	assert.Equal(t, model.StatusUnset, e.OpenLeads()[0].Status)
}

func TestApplyStatus_MatchesPunctuatedPhones(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "(19) 99876-5432")})

	e.ApplyStatus(1, model.StatusInContact, "19998765432")

	assert.Equal(t, model.StatusInContact, e.OpenLeads()[0].Status)
}

func TestLoadOpen_PinnedLeadSurvivesRefresh(t *testing.T) {
	e := New(&mockRemote{})
	edited := openLead(1, "111")
	edited.Notes = "negociando desconto"
	e.LoadOpen([]model.Lead{edited, openLead(2, "222")})

	e.Pin(1)

	stale1 := openLead(1, "111")
	stale2 := openLead(2, "222")
	stale2.City = "Sorocaba"
	e.LoadOpen([]model.Lead{stale1, stale2})

	open := e.OpenLeads()
	require.Len(t, open, 2)
	assert.Equal(t, "negociando desconto", open[0].Notes, "pinned lead must keep its local copy")
	assert.Equal(t, "Sorocaba", open[1].City, "unpinned leads take the snapshot version")

	// Once unpinned, the next refresh wins.
	e.Unpin()
	e.LoadOpen([]model.Lead{stale1, stale2})
	assert.Empty(t, e.OpenLeads()[0].Notes)
}

func TestLoadOpen_PinnedLeadMissingFromSnapshotIsKept(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})
	e.Pin(1)

	e.LoadOpen([]model.Lead{openLead(2, "222")})

	open := e.OpenLeads()
	require.Len(t, open, 2)
	assert.Equal(t, 2, open[0].ID)
	assert.Equal(t, 1, open[1].ID)
}

func TestConfirmStatus_RejectsSentinel(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	err := e.ConfirmStatus(context.Background(), 1, model.ParseStatus("Selecione"), "111")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidStatus)
	assert.Empty(t, remote.statusCalls, "no backend call for a rejected transition")
}

func TestConfirmStatus_NotifiesBackend(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	err := e.ConfirmStatus(context.Background(), 1, model.StatusNoContact, "111")

	require.NoError(t, err)
	require.Len(t, remote.statusCalls, 1)
	assert.Equal(t, model.StatusNoContact, remote.statusCalls[0].Status)
	assert.Equal(t, "111", remote.statusCalls[0].Phone)
	assert.Equal(t, model.StatusNoContact, e.OpenLeads()[0].Status)
	assert.True(t, e.OpenLeads()[0].Confirmed)
}

func TestSchedule_SetsStatusAndPersistsDate(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	date := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.Local)
	require.NoError(t, e.Schedule(context.Background(), 1, date, "111"))

	lead := e.OpenLeads()[0]
	assert.Equal(t, model.Status("Agendado - 05/02/2026"), lead.Status)
	assert.Equal(t, "2026-02-05", lead.SchedulingDate)
	assert.True(t, lead.Confirmed)

	require.Len(t, remote.statusCalls, 1)
	require.Len(t, remote.scheduleDays, 1)
	assert.Equal(t, date, remote.scheduleDays[0])
}

func TestReopen_ReturnsToUnsetWithoutBackendCall(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)
	lead := openLead(1, "111")
	lead.Status = model.StatusNoContact
	lead.Confirmed = true
	e.LoadOpen([]model.Lead{lead})

	e.Reopen(1)

	assert.True(t, e.OpenLeads()[0].Status.IsUnset())
	assert.False(t, e.OpenLeads()[0].Confirmed)
	assert.Empty(t, remote.statusCalls)
}

func TestConfirmInsurer_MissingClosedLeadAborts(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)

	err := e.ConfirmInsurer(context.Background(), 42, "Azul", "1.000,00", "12", "4x", "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, remote.confirmCalls, "no remote write for an unlocatable record")
}

func TestConfirmInsurer_RemoteFailureKeepsOptimisticState(t *testing.T) {
	remote := &mockRemote{confirmErr: errors.New("boom")}
	e := New(remote)
	e.LoadClosed([]model.ClosedLead{{ID: 5, Phone: "111"}})

	err := e.ConfirmInsurer(context.Background(), 5, "Azul", "1.000,00", "12", "4x", "02/04/2027", "02/04/2026")

	require.Error(t, err)
	closed := e.ClosedLeads()
	require.Len(t, closed, 1)
	assert.Equal(t, "Azul", closed[0].Insurer, "optimistic update is intentionally retained")
	assert.Equal(t, "1.000,00", closed[0].NetPremium)
	assert.True(t, closed[0].InsurerConfirmed)
}

func TestConfirmInsurer_SuccessTriggersReconciliationPoll(t *testing.T) {
	remote := &mockRemote{
		closedSnapshot: []model.ClosedLead{{ID: 5, Phone: "111", Insurer: "Azul", NetPremium: "999,00"}},
	}
	e := New(remote)
	e.LoadClosed([]model.ClosedLead{{ID: 5, Phone: "111"}})

	err := e.ConfirmInsurer(context.Background(), 5, "Azul", "1.000,00", "12", "4x", "", "")

	require.NoError(t, err)
	require.Len(t, remote.confirmCalls, 1)
	assert.Equal(t, "Azul", remote.confirmCalls[0].Insurer)
	// The reconciliation poll replaced the optimistic copy with the
	// backend's version.
	assert.Equal(t, "999,00", e.ClosedLeads()[0].NetPremium)
}

func TestUpdateInsurerOnOpen_ClearsQuotedTerms(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	require.NoError(t, e.UpdateInsurerOnOpen(1, "Suhai"))

	lead := e.OpenLeads()[0]
	assert.Equal(t, "Suhai", lead.Insurer)
	assert.Empty(t, lead.NetPremium)
	assert.Empty(t, lead.CommissionPct)
	assert.Empty(t, lead.PeriodStart)
	assert.Empty(t, lead.PeriodEnd)
}

func TestTransferAssignee(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})
	e.LoadUsers([]model.User{
		{ID: 10, DisplayName: "Ana", Status: model.UserActive},
		{ID: 11, DisplayName: "Beto", Status: model.UserInactive},
	})

	userID := 10
	e.TransferAssignee(1, &userID)
	assert.Equal(t, "Ana", e.OpenLeads()[0].AssigneeName)

	// Inactive users never receive assignments.
	inactive := 11
	e.TransferAssignee(1, &inactive)
	assert.Equal(t, "Ana", e.OpenLeads()[0].AssigneeName)

	// A stale id is a silent no-op.
	stale := 99
	e.TransferAssignee(1, &stale)
	assert.Equal(t, "Ana", e.OpenLeads()[0].AssigneeName)

	e.TransferAssignee(1, nil)
	assert.Empty(t, e.OpenLeads()[0].AssigneeName)
	assert.Zero(t, e.OpenLeads()[0].AssigneeID)
}

func TestAddLead_FrontInsertAndDedupe(t *testing.T) {
	e := New(&mockRemote{})
	e.LoadOpen([]model.Lead{openLead(1, "111")})

	e.AddLead(openLead(2, "222"))
	open := e.OpenLeads()
	require.Len(t, open, 2)
	assert.Equal(t, 2, open[0].ID, "new leads go to the front")

	// Duplicate id is dropped silently.
	dup := openLead(2, "333")
	dup.Name = "Outro Nome"
	e.AddLead(dup)
	open = e.OpenLeads()
	assert.Len(t, open, 2)
	assert.Equal(t, "Maria Souza", open[1].Name)
}

func TestEndToEnd_ClosePromotionScenario(t *testing.T) {
	remote := &mockRemote{}
	e := New(remote)
	e.LoadOpen([]model.Lead{{ID: 1, Phone: "111", Name: "Cliente"}})

	require.NoError(t, e.ConfirmStatus(context.Background(), 1, model.StatusClosed, "111"))

	closed := e.ClosedLeads()
	require.Len(t, closed, 1)
	assert.Equal(t, model.StatusClosed, closed[0].Status)
	assert.Equal(t, "Cliente", closed[0].Name)

	require.NoError(t, e.ConfirmStatus(context.Background(), 1, model.StatusClosed, "111"))
	assert.Len(t, e.ClosedLeads(), 1, "second close must update, not duplicate")

	// The open lead is mirrored, not removed.
	assert.Len(t, e.OpenLeads(), 1)
	assert.Equal(t, model.StatusClosed, e.OpenLeads()[0].Status)
}
