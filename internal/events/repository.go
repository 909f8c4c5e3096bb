// Package events serves the calendar of the signed-in user: hearings, meetings, filings
// and the other dated events of their cases.
package events

import (
	"context"
	"slices"
	"strings"
	"sync"

	"adhi/internal/navigation"
)

// Repository defines access to the events visible to a role
type Repository interface {
	List(ctx context.Context, role string) ([]Event, error)
	Create(ctx context.Context, role string, event Event) error
}

// memoryRepository keeps one event set per role, seeded with sample events
type memoryRepository struct {
	mu     sync.RWMutex
	byRole map[navigation.Role][]Event
}

// NewMemoryRepository returns a repository seeded with the built-in sample events
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byRole: map[navigation.Role][]Event{
			navigation.RoleLawyer: slices.Clone(lawyerEvents),
			navigation.RoleClient: slices.Clone(clientEvents),
		},
	}
}

// List returns a copy of the role's events ordered by date and time
func (r *memoryRepository) List(ctx context.Context, role string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.byRole[navigation.ParseRole(role)])
	slices.SortStableFunc(out, func(a, b Event) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return compareClock(a.Time, b.Time)
	})
	return out, nil
}

// Create adds event to the role's set
func (r *memoryRepository) Create(ctx context.Context, role string, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := navigation.ParseRole(role)
	r.byRole[key] = append(r.byRole[key], event)
	return nil
}

var lawyerEvents = []Event{
	{
		ID:          "event-1",
		Title:       "Court Hearing",
		Date:        "2023-06-15",
		Time:        "10:00 AM",
		Type:        "hearing",
		Location:    "Court Room 3",
		Description: "Initial hearing",
		Case:        "Smith v. Johnson",
	},
	{
		ID:       "event-2",
		Title:    "Will review with heirs",
		Date:     "2023-06-12",
		Time:     "3:30 PM",
		Type:     "client_meeting",
		Location: "Office",
		Case:     "Estate of Williams",
	},
	{
		ID:    "event-3",
		Title: "File written statement",
		Date:  "2023-12-18",
		Type:  "case_filing",
		Case:  "Brown LLC v. Davis Corp",
	},
}

var clientEvents = []Event{
	{
		ID:       "event-1",
		Title:    "Court Hearing",
		Date:     "2023-06-15",
		Time:     "11:00 AM",
		Type:     "hearing",
		Location: "Bangalore Urban District Court",
		Case:     "Property Dispute",
	},
	{
		ID:          "event-2",
		Title:       "Submit claim documents",
		Date:        "2023-06-20",
		Type:        "evidence_submission",
		Description: "Policy copy and repair invoices",
		Case:        "Insurance Claim",
	},
}
