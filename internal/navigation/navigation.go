// Package navigation maps a session role onto the destinations of the app shell.
package navigation

// Role classifies a user for navigation purposes
type Role string

const (
	RoleLawyer Role = "lawyer"
	RoleClient Role = "client"
)

// ParseRole maps a stored role onto a Role. Anything other than "lawyer", including the
// empty string, is the client branch.
func ParseRole(raw string) Role {
	if Role(raw) == RoleLawyer {
		return RoleLawyer
	}
	return RoleClient
}

// IsLawyer reports whether raw selects the lawyer branch
func IsLawyer(raw string) bool {
	return ParseRole(raw) == RoleLawyer
}

// Destination is a navigable section of the app shell
type Destination struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Icon    string `json:"icon,omitempty"`
	Visible bool   `json:"visible"`
	// InTabBar is false for screens that are routable but have no tab.
	InTabBar bool `json:"in_tab_bar"`
}

// Destination keys
const (
	KeyDashboard     = "index"
	KeyCases         = "cases"
	KeyClients       = "clients"
	KeyLawyers       = "lawyers"
	KeyUpload        = "upload"
	KeyMessages      = "messages"
	KeyCalendar      = "calendar"
	KeyProfile       = "profile"
	KeyDocuments     = "documents"
	KeyNotifications = "notifications"
	KeySettings      = "settings"
	KeyExplore       = "explore"
)

// DeriveVisibleDestinations returns the ordered destination list for a role.
// It is pure and defined for every role value.
func DeriveVisibleDestinations(role string) []Destination {
	lawyer := IsLawyer(role)

	casesLabel := "My Cases"
	if lawyer {
		casesLabel = "Cases"
	}

	return []Destination{
		{Key: KeyDashboard, Label: "Dashboard", Icon: "grid-outline", Visible: true, InTabBar: true},
		{Key: KeyCases, Label: casesLabel, Icon: "document-text-outline", Visible: true, InTabBar: true},
		{Key: KeyClients, Label: "Clients & Parties", Icon: "people-outline", Visible: lawyer, InTabBar: true},
		{Key: KeyLawyers, Label: "My Lawyers", Icon: "briefcase-outline", Visible: !lawyer, InTabBar: true},
		{Key: KeyUpload, Label: "", Icon: "cloud-upload-outline", Visible: true, InTabBar: true},
		{Key: KeyMessages, Label: "Messages", Icon: "chatbubble-outline", Visible: true, InTabBar: true},
		{Key: KeyCalendar, Label: "Calendar", Icon: "calendar-outline", Visible: true, InTabBar: true},
		{Key: KeyProfile, Label: "Profile", Visible: true},
		{Key: KeyDocuments, Label: "Documents", Visible: true},
		{Key: KeyNotifications, Label: "Notifications", Visible: true},
		{Key: KeySettings, Label: "Settings", Visible: true},
		{Key: KeyExplore, Label: "Explore", Visible: true},
	}
}

// Visible filters destinations down to the visible ones, keeping order
func Visible(destinations []Destination) []Destination {
	out := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.Visible {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the destination with the given key
func Find(destinations []Destination, key string) (Destination, bool) {
	for _, d := range destinations {
		if d.Key == key {
			return d, true
		}
	}
	return Destination{}, false
}
