package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/renovadesk/renova/internal/model"
)

var admin = model.User{ID: 1, DisplayName: "Chefe", Role: model.RoleAdmin, Status: model.UserActive}

func TestCompute_GoalPercentage(t *testing.T) {
	closed := make([]model.ClosedLead, 25)
	for i := range closed {
		closed[i] = model.ClosedLead{ID: i + 1}
	}

	s := Compute(Input{Closed: closed, Goal: 100, Actor: admin})
	assert.InDelta(t, 25.0, s.GoalPercent, 0.0001)

	// Zero goal never divides.
	s = Compute(Input{Closed: closed, Goal: 0, Actor: admin})
	assert.Zero(t, s.GoalPercent)
}

func TestCompute_WeightedCommission(t *testing.T) {
	in := Input{
		Actor: admin,
		Closed: []model.ClosedLead{
			{ID: 1, NetPremium: "1.000,00", CommissionPct: "10"},
			{ID: 2, NetPremium: "3.000,00", CommissionPct: "20"},
		},
	}

	s := Compute(in)
	assert.InDelta(t, 4000.0, s.PremiumSum, 0.0001)
	// (1000*10 + 3000*20) / 4000 = 17.5
	assert.InDelta(t, 17.5, s.WeightedCommissionPct, 0.0001)
}

func TestCompute_WeightedCommissionZeroDenominator(t *testing.T) {
	in := Input{
		Actor: admin,
		Closed: []model.ClosedLead{
			{ID: 1, NetPremium: "", CommissionPct: "10"},
		},
	}
	s := Compute(in)
	assert.Zero(t, s.WeightedCommissionPct)
}

func TestCompute_InsurerBuckets(t *testing.T) {
	in := Input{
		Actor: admin,
		Closed: []model.ClosedLead{
			{ID: 1, Insurer: "Porto Seguro"},
			{ID: 2, Insurer: "porto seguro"},
			{ID: 3, Insurer: "Azul"},
			{ID: 4, Insurer: "Mapfre"},
		},
	}

	s := Compute(in)
	assert.Equal(t, 2, s.ByInsurer["Porto Seguro"])
	assert.Equal(t, 1, s.ByInsurer["Azul"])
	assert.Equal(t, 0, s.ByInsurer["Bradesco"])
	// Untracked insurers still count toward the closed total.
	assert.Equal(t, 4, s.ClosedCount)
	assert.NotContains(t, s.ByInsurer, "Mapfre")
}

func TestCompute_OpenCountsAndLost(t *testing.T) {
	in := Input{
		Actor: admin,
		Open: []model.Lead{
			{ID: 1, CreatedAt: "2026-02-01"},
			{ID: 2, CreatedAt: "2026-02-10"},
			{ID: 3, CreatedAt: "2026-03-01"},
			{ID: 4, CreatedAt: "2026-02-05", Status: model.StatusLost},
		},
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local),
		To:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local),
	}

	s := Compute(in)
	assert.Equal(t, 2, s.OpenInRange, "lost and out-of-range leads are excluded")
	assert.Equal(t, 1, s.Lost)
}

func TestCompute_NonAdminScoping(t *testing.T) {
	ana := model.User{ID: 7, DisplayName: "Ana", Role: model.RoleUser, Status: model.UserActive}
	in := Input{
		Actor: ana,
		Open: []model.Lead{
			{ID: 1, AssigneeID: 7},
			{ID: 2, AssigneeName: "Ana"},
			{ID: 3, AssigneeName: "Beto"},
		},
		Closed: []model.ClosedLead{
			{ID: 1, AssigneeName: "Ana", NetPremium: "500,00"},
			{ID: 2, AssigneeName: "Beto", NetPremium: "900,00"},
		},
		Goal: 10,
	}

	s := Compute(in)
	assert.Equal(t, 2, s.OpenInRange)
	assert.Equal(t, 1, s.ClosedCount)
	assert.InDelta(t, 500.0, s.PremiumSum, 0.0001)
	assert.InDelta(t, 10.0, s.GoalPercent, 0.0001)
}
