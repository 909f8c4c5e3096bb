package messages

import "time"

// Group is a case conversation on the messages screen
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LastMessage string    `json:"last_message,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	Members     int       `json:"members"`
	UnreadCount int       `json:"unread_count"`
}

// Sender identifies the author of a message
type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is one entry of a group conversation
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// SendRequest is the body of the message composer
type SendRequest struct {
	Text string `json:"text"`
}

// GroupsResponse is the response of the group list endpoint
type GroupsResponse struct {
	Groups []Group `json:"groups"`
}

// ConversationResponse is the response of the message list endpoint
type ConversationResponse struct {
	Group    Group     `json:"group"`
	Messages []Message `json:"messages"`
}

// MaxMessageLength bounds a single message, in characters
const MaxMessageLength = 2000
