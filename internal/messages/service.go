package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"adhi/internal/session"

	"github.com/google/uuid"
)

var (
	// ErrEmptyMessage is returned when a message has no text
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong is returned when a message exceeds MaxMessageLength
	ErrMessageTooLong = errors.New("message is too long")
)

// Service handles the messaging rules
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a messages service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Groups lists the conversations of the session's role
func (s *Service) Groups(ctx context.Context, sess *session.Session) ([]Group, error) {
	groups, err := s.repo.Groups(ctx, sess.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Open returns a conversation and marks it read
func (s *Service) Open(ctx context.Context, sess *session.Session, groupID string) (*ConversationResponse, error) {
	group, msgs, err := s.repo.Messages(ctx, sess.Role, groupID)
	if err != nil {
		return nil, err
	}
	return &ConversationResponse{Group: group, Messages: msgs}, nil
}

// Send posts text to a group as the session's user
func (s *Service) Send(ctx context.Context, sess *session.Session, groupID, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	msg := Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    senderOf(sess),
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.repo.Append(ctx, sess.Role, groupID, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// senderOf names the session's user; a session without a name shows as "You"
func senderOf(sess *session.Session) Sender {
	sender := Sender{ID: sess.Email, Name: sess.Name}
	if sender.ID == "" {
		sender.ID = "me"
	}
	if sender.Name == "" {
		sender.Name = "You"
	}
	return sender
}
