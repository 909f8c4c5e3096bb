// Package messages serves the case conversations of the signed-in user.
package messages

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"adhi/internal/navigation"
)

// ErrGroupNotFound is returned for a group outside the caller's conversations
var ErrGroupNotFound = errors.New("group not found")

// Repository defines access to the conversations visible to a role
type Repository interface {
	Groups(ctx context.Context, role string) ([]Group, error)
	// Messages returns the group's messages oldest first and marks the group read.
	Messages(ctx context.Context, role, groupID string) (Group, []Message, error)
	Append(ctx context.Context, role, groupID string, msg Message) (Group, error)
}

type conversation struct {
	group    Group
	messages []Message
}

// memoryRepository keeps one set of conversations per role, seeded with samples
type memoryRepository struct {
	mu     sync.Mutex
	byRole map[navigation.Role][]*conversation
}

// NewMemoryRepository returns a repository seeded relative to now
func NewMemoryRepository(now time.Time) Repository {
	return &memoryRepository{
		byRole: map[navigation.Role][]*conversation{
			navigation.RoleLawyer: lawyerConversations(now),
			navigation.RoleClient: clientConversations(now),
		},
	}
}

// Groups returns the role's groups, most recently active first
func (r *memoryRepository) Groups(ctx context.Context, role string) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	convs := r.byRole[navigation.ParseRole(role)]
	out := make([]Group, 0, len(convs))
	for _, conv := range convs {
		out = append(out, conv.group)
	}
	slices.SortStableFunc(out, func(a, b Group) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

func (r *memoryRepository) Messages(ctx context.Context, role, groupID string) (Group, []Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.find(role, groupID)
	if conv == nil {
		return Group{}, nil, ErrGroupNotFound
	}
	conv.group.UnreadCount = 0
	return conv.group, slices.Clone(conv.messages), nil
}

func (r *memoryRepository) Append(ctx context.Context, role, groupID string, msg Message) (Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.find(role, groupID)
	if conv == nil {
		return Group{}, ErrGroupNotFound
	}
	conv.messages = append(conv.messages, msg)
	conv.group.LastMessage = msg.Text
	conv.group.UpdatedAt = msg.CreatedAt
	return conv.group, nil
}

func (r *memoryRepository) find(role, groupID string) *conversation {
	for _, conv := range r.byRole[navigation.ParseRole(role)] {
		if conv.group.ID == groupID {
			return conv
		}
	}
	return nil
}

func lawyerConversations(now time.Time) []*conversation {
	john := Sender{ID: "user-2", Name: "John Doe"}
	you := Sender{ID: "user-1", Name: "Test User"}

	return []*conversation{
		{
			group: Group{
				ID:          "group-1",
				Name:        "Smith v. Johnson Team",
				LastMessage: "Meeting scheduled for tomorrow",
				UpdatedAt:   now,
				Members:     3,
				UnreadCount: 2,
			},
			messages: []Message{
				{ID: "msg-1", Text: "Hello, team!", Sender: john, CreatedAt: now.Add(-time.Hour)},
				{ID: "msg-2", Text: "Hi John! Ready for the meeting?", Sender: you, CreatedAt: now.Add(-30 * time.Minute)},
				{ID: "msg-3", Text: "Meeting scheduled for tomorrow", Sender: john, CreatedAt: now},
			},
		},
		{
			group: Group{
				ID:          "group-2",
				Name:        "Estate of Williams",
				LastMessage: "Documents received",
				UpdatedAt:   now.Add(-24 * time.Hour),
				Members:     2,
			},
			messages: []Message{
				{ID: "msg-4", Text: "Documents received", Sender: you, CreatedAt: now.Add(-24 * time.Hour)},
			},
		},
	}
}

func clientConversations(now time.Time) []*conversation {
	lawyer := Sender{ID: "user-3", Name: "Adv. Meera Iyer"}

	return []*conversation{
		{
			group: Group{
				ID:          "group-1",
				Name:        "Property Dispute",
				LastMessage: "Please bring the sale deed on Thursday",
				UpdatedAt:   now.Add(-2 * time.Hour),
				Members:     2,
				UnreadCount: 1,
			},
			messages: []Message{
				{ID: "msg-1", Text: "Please bring the sale deed on Thursday", Sender: lawyer, CreatedAt: now.Add(-2 * time.Hour)},
			},
		},
	}
}
