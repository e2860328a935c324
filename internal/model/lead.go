// Package model defines the domain types shared across the application.
package model

// Lead represents a renewal prospect on the open sheet.
//
// Financial and date fields are kept as raw sheet text: the backend stores
// them as free-form cells and the UI echoes them back verbatim. Parsing only
// happens at the edges (metrics, display).
type Lead struct {
	ID               int
	Name             string
	VehicleModel     string
	VehicleYearModel string
	City             string
	Phone            string
	InsuranceType    string
	Status           Status
	Confirmed        bool
	Insurer          string
	InsurerConfirmed bool
	AssigneeID       int
	AssigneeName     string
	NetPremium       string
	CommissionPct    string
	InstallmentPlan  string
	PeriodStart      string
	PeriodEnd        string
	CreatedAt        string
	Notes            string
	SchedulingDate   string
}

// ClosedLead mirrors a Lead whose renewal was confirmed. It lives on a
// separate sheet with its own row ids; the phone number is the only reliable
// join key back to the open collection.
type ClosedLead struct {
	ID               int
	Name             string
	VehicleModel     string
	VehicleYearModel string
	Phone            string
	Status           Status
	Insurer          string
	InsurerConfirmed bool
	AssigneeName     string
	NetPremium       string
	CommissionPct    string
	InstallmentPlan  string
	PeriodStart      string
	PeriodEnd        string
	Notes            string
}
