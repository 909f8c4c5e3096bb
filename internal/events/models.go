package events

// Event is an entry on the calendar screen
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Case        string `json:"case,omitempty"`
	// Color is derived from Type when events are served.
	Color string `json:"color,omitempty"`
}

// EventType is a selectable kind of event and the color the calendar marks it with
type EventType struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// EventTypes lists the event kinds in picker order
var EventTypes = []EventType{
	{Value: "hearing", Label: "Court Hearing", Color: "#3b82f6"},
	{Value: "client_meeting", Label: "Client Meeting", Color: "#10b981"},
	{Value: "case_filing", Label: "Case Filing", Color: "#ef4444"},
	{Value: "evidence_submission", Label: "Evidence Submission", Color: "#a855f7"},
	{Value: "court_visit", Label: "Court Visit", Color: "#eab308"},
}

// DefaultColor marks events of an unknown type
const DefaultColor = "#6b7280"

// CreateEventRequest is the body of the new event form
type CreateEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Case        string `json:"case"`
}

// ListResponse is the response of the event list endpoint
type ListResponse struct {
	Count  int     `json:"count"`
	Events []Event `json:"events"`
}
