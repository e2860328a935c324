// Package metrics derives the dashboard aggregates from the engine's
// current snapshot plus the two polled scalars. Everything here is a pure
// function; the engine owns the data, this package only folds over copies.
package metrics

import (
	"strings"
	"time"

	"github.com/renovadesk/renova/internal/dates"
	"github.com/renovadesk/renova/internal/model"
	"github.com/renovadesk/renova/internal/numeric"
)

// TrackedInsurers are the four insurers the dashboard breaks out by name.
// Anything else closes under no bucket and is not separately totaled.
var TrackedInsurers = []string{"Porto Seguro", "Azul", "Bradesco", "Suhai"}

// Input is everything a dashboard computation depends on.
type Input struct {
	Open     []model.Lead
	Closed   []model.ClosedLead
	Goal     float64
	Progress float64

	// From/To bound the open-lead count by creation date. Zero values leave
	// the corresponding side unbounded.
	From time.Time
	To   time.Time

	// Actor scopes the aggregates: a non-admin only sees records assigned
	// to them.
	Actor model.User
}

// Summary holds the computed dashboard aggregates.
type Summary struct {
	OpenInRange           int
	Lost                  int
	ClosedCount           int
	ByInsurer             map[string]int
	PremiumSum            float64
	WeightedCommissionPct float64
	Goal                  float64
	GoalPercent           float64
	Progress              float64
}

// Compute folds the two collections and the polled scalars into a Summary.
func Compute(in Input) Summary {
	open, closed := scope(in)

	s := Summary{
		ByInsurer: make(map[string]int, len(TrackedInsurers)),
		Goal:      in.Goal,
		Progress:  in.Progress,
	}

	for _, lead := range open {
		if lead.Status.IsLost() {
			s.Lost++
			continue
		}
		if inRange(lead.CreatedAt, in.From, in.To) {
			s.OpenInRange++
		}
	}

	var weighted float64
	for _, lead := range closed {
		s.ClosedCount++

		for _, insurer := range TrackedInsurers {
			if strings.EqualFold(strings.TrimSpace(lead.Insurer), insurer) {
				s.ByInsurer[insurer]++
				break
			}
		}

		premium, ok := numeric.Extract(lead.NetPremium)
		if !ok {
			continue
		}
		s.PremiumSum += premium
		if commission, ok := numeric.Extract(lead.CommissionPct); ok {
			weighted += premium * commission
		}
	}

	if s.PremiumSum > 0 {
		s.WeightedCommissionPct = weighted / s.PremiumSum
	}
	if in.Goal > 0 {
		s.GoalPercent = float64(s.ClosedCount) / in.Goal * 100
	}

	return s
}

// scope pre-filters both collections to the actor's own records unless the
// actor is an admin.
func scope(in Input) ([]model.Lead, []model.ClosedLead) {
	if in.Actor.IsAdmin() {
		return in.Open, in.Closed
	}

	open := make([]model.Lead, 0, len(in.Open))
	for _, lead := range in.Open {
		if lead.AssigneeID == in.Actor.ID || strings.EqualFold(lead.AssigneeName, in.Actor.DisplayName) {
			open = append(open, lead)
		}
	}

	closed := make([]model.ClosedLead, 0, len(in.Closed))
	for _, lead := range in.Closed {
		if strings.EqualFold(lead.AssigneeName, in.Actor.DisplayName) {
			closed = append(closed, lead)
		}
	}
	return open, closed
}

// inRange checks a raw creation-date cell against the filter bounds.
// Unparseable dates pass an unbounded filter and fail a bounded one.
func inRange(raw string, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	t, ok := dates.Parse(raw)
	if !ok {
		return false
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
