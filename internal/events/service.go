package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adhi/internal/cases"

	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a new event has no title
	ErrTitleRequired = errors.New("event title is required")
	// ErrInvalidDate is returned when the date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("event date must be YYYY-MM-DD")
	// ErrInvalidTime is returned when the time is not like "10:00 AM"
	ErrInvalidTime = errors.New("event time must look like 10:00 AM")
	// ErrUnknownType is returned for a type outside EventTypes
	ErrUnknownType = errors.New("unknown event type")
	// ErrUnknownCase is returned when the event names a case the caller cannot see
	ErrUnknownCase = errors.New("unknown case")
	// ErrInvalidMonth is returned when a month filter is not YYYY-MM
	ErrInvalidMonth = errors.New("month must be YYYY-MM")
)

const clockLayout = "3:04 PM"

// Service handles the calendar's business rules
type Service struct {
	repo  Repository
	cases cases.Repository
}

// NewService creates an events service. Events may only reference cases that
// caseRepo lists for the caller's role.
func NewService(repo Repository, caseRepo cases.Repository) *Service {
	return &Service{repo: repo, cases: caseRepo}
}

// List returns the role's events, optionally limited to one month (YYYY-MM) or one
// day (YYYY-MM-DD). The day filter wins when both are given.
func (s *Service) List(ctx context.Context, role, month, day string) ([]Event, error) {
	all, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	switch {
	case day != "":
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			return nil, ErrInvalidDate
		}
		all = filter(all, func(e Event) bool { return e.Date == day })
	case month != "":
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, ErrInvalidMonth
		}
		all = filter(all, func(e Event) bool { return strings.HasPrefix(e.Date, month+"-") })
	}

	for i := range all {
		all[i].Color = ColorOf(all[i].Type)
	}
	return all, nil
}

// Create validates req and stores it as a new event of role
func (s *Service) Create(ctx context.Context, role string, req CreateEventRequest) (*Event, error) {
	event := Event{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Type:        req.Type,
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Case:        strings.TrimSpace(req.Case),
	}
	if event.Type == "" {
		event.Type = EventTypes[0].Value
	}

	if err := s.validate(ctx, role, event); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, role, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event.Color = ColorOf(event.Type)
	return &event, nil
}

func (s *Service) validate(ctx context.Context, role string, event Event) error {
	if event.Title == "" {
		return ErrTitleRequired
	}
	if _, err := time.Parse(time.DateOnly, event.Date); err != nil {
		return ErrInvalidDate
	}
	if event.Time != "" {
		if _, err := time.Parse(clockLayout, event.Time); err != nil {
			return ErrInvalidTime
		}
	}
	if _, ok := TypeOf(event.Type); !ok {
		return ErrUnknownType
	}
	if event.Case == "" {
		return nil
	}

	all, err := s.cases.List(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}
	for _, c := range all {
		if c.Title == event.Case {
			return nil
		}
	}
	return ErrUnknownCase
}

// TypeOf looks up an event type by value
func TypeOf(value string) (EventType, bool) {
	for _, t := range EventTypes {
		if t.Value == value {
			return t, true
		}
	}
	return EventType{}, false
}

// ColorOf returns the calendar color of an event type
func ColorOf(value string) string {
	if t, ok := TypeOf(value); ok {
		return t.Color
	}
	return DefaultColor
}

func filter(all []Event, keep func(Event) bool) []Event {
	out := make([]Event, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// compareClock orders "10:00 AM" style times; untimed events sort first
func compareClock(a, b string) int {
	ta, errA := time.Parse(clockLayout, a)
	tb, errB := time.Parse(clockLayout, b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return ta.Compare(tb)
}
