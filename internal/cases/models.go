package cases

// Case is a matter shown on the cases screen
type Case struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Number      string `json:"number"`
	Type        string `json:"type"`
	Client      string `json:"client,omitempty"`
	Court       string `json:"court"`
	Status      string `json:"status"`
	NextHearing string `json:"next_hearing,omitempty"`
}

// Stats summarizes a case list for the dashboard
type Stats struct {
	TotalCases       int `json:"total_cases"`
	ActiveCases      int `json:"active_cases"`
	ClosedCases      int `json:"closed_cases"`
	UpcomingHearings int `json:"upcoming_hearings"`
}

// ListResponse is the response of the case list endpoint
type ListResponse struct {
	Title string `json:"title"`
	Count int    `json:"count"`
	Cases []Case `json:"cases"`
}

// StatusAll matches every case status
const StatusAll = "All"
