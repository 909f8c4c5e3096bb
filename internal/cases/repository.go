// Package cases serves the case list and dashboard figures of the signed-in user.
package cases

import (
	"context"
	"strings"
	"time"

	"adhi/internal/navigation"
)

// Repository defines access to the cases visible to a role
type Repository interface {
	List(ctx context.Context, role string) ([]Case, error)
}

// fixtureRepository serves fixed case sets until the case backend exists
type fixtureRepository struct {
	lawyer []Case
	client []Case
}

// NewFixtureRepository returns a repository over the built-in sample cases
func NewFixtureRepository() Repository {
	return &fixtureRepository{
		lawyer: lawyerCases,
		client: clientCases,
	}
}

// List returns a copy of the role's case set
func (r *fixtureRepository) List(ctx context.Context, role string) ([]Case, error) {
	src := r.client
	if navigation.IsLawyer(role) {
		src = r.lawyer
	}
	return append([]Case(nil), src...), nil
}

// Filter keeps cases whose title, number or court contains search (case-insensitively)
// and whose status equals status. An empty status or StatusAll matches any status.
func Filter(all []Case, search, status string) []Case {
	search = strings.ToLower(search)
	out := make([]Case, 0, len(all))

	for _, c := range all {
		matchesSearch := strings.Contains(strings.ToLower(c.Title), search) ||
			strings.Contains(strings.ToLower(c.Number), search) ||
			strings.Contains(strings.ToLower(c.Court), search)

		matchesStatus := status == "" || status == StatusAll || strings.EqualFold(c.Status, status)

		if matchesSearch && matchesStatus {
			out = append(out, c)
		}
	}

	return out
}

// Summarize counts cases by status and hearings on or after now
func Summarize(all []Case, now time.Time) Stats {
	stats := Stats{TotalCases: len(all)}
	today := now.UTC().Truncate(24 * time.Hour)

	for _, c := range all {
		switch strings.ToLower(c.Status) {
		case "active":
			stats.ActiveCases++
		case "closed":
			stats.ClosedCases++
		}

		if c.NextHearing == "" {
			continue
		}
		hearing, err := time.Parse(time.DateOnly, c.NextHearing)
		if err == nil && !hearing.Before(today) {
			stats.UpcomingHearings++
		}
	}

	return stats
}

// ListTitle is the heading of the case list for a role
func ListTitle(role string) string {
	if navigation.IsLawyer(role) {
		return "All Cases"
	}
	return "My Cases"
}

var lawyerCases = []Case{
	{
		ID:          "case-1",
		Title:       "Smith v. Johnson",
		Number:      "CV-2023-1234",
		Type:        "Civil Litigation",
		Client:      "John Smith",
		Status:      "Active",
		Court:       "Bangalore Urban District Court",
		NextHearing: "2023-12-15",
	},
	{
		ID:     "case-2",
		Title:  "Estate of Williams",
		Number: "PR-2023-5678",
		Type:   "Probate",
		Client: "Sarah Williams",
		Status: "Active",
		Court:  "Karnataka High Court",
	},
	{
		ID:          "case-3",
		Title:       "Brown LLC v. Davis Corp",
		Number:      "CV-2023-9012",
		Type:        "Corporate",
		Client:      "Brown LLC",
		Status:      "Active",
		Court:       "Commercial Court",
		NextHearing: "2023-12-20",
	},
}

var clientCases = []Case{
	{
		ID:          "case-1",
		Title:       "Property Dispute",
		Number:      "CV-2023-4567",
		Type:        "Civil",
		Status:      "Active",
		Court:       "Bangalore Urban District Court",
		NextHearing: "2023-06-15",
	},
	{
		ID:          "case-2",
		Title:       "Insurance Claim",
		Number:      "CC-2023-7890",
		Type:        "Consumer",
		Status:      "Active",
		Court:       "Consumer Court",
		NextHearing: "2023-06-22",
	},
}
