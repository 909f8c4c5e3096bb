package cases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adhi/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(cs []Case) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Title)
	}
	return out
}

func TestFixtureRepository_ByRole(t *testing.T) {
	repo := NewFixtureRepository()

	lawyer, err := repo.List(context.Background(), "lawyer")
	require.NoError(t, err)
	assert.Len(t, lawyer, 3)
	assert.Equal(t, "John Smith", lawyer[0].Client)

	for _, role := range []string{"client", "", "other"} {
		got, err := repo.List(context.Background(), role)
		require.NoError(t, err)
		assert.Equal(t, []string{"Property Dispute", "Insurance Claim"}, titles(got))
	}
}

func TestFixtureRepository_ReturnsCopy(t *testing.T) {
	repo := NewFixtureRepository()
	first, _ := repo.List(context.Background(), "lawyer")
	first[0].Title = "changed"

	second, _ := repo.List(context.Background(), "lawyer")
	assert.Equal(t, "Smith v. Johnson", second[0].Title)
}

func TestFilter(t *testing.T) {
	all := append(append([]Case(nil), lawyerCases...), Case{
		Title: "Old Matter", Number: "CL-2020-1", Court: "Small Claims", Status: "Closed",
	})

	assert.Len(t, Filter(all, "", ""), 4)
	assert.Len(t, Filter(all, "", StatusAll), 4)
	assert.Equal(t, []string{"Smith v. Johnson"}, titles(Filter(all, "SMITH", "")))
	assert.Equal(t, []string{"Estate of Williams"}, titles(Filter(all, "pr-2023", "")))
	assert.Equal(t, []string{"Brown LLC v. Davis Corp"}, titles(Filter(all, "commercial", "all")))
	assert.Equal(t, []string{"Old Matter"}, titles(Filter(all, "", "closed")))
	assert.Empty(t, Filter(all, "smith", "Closed"))
	assert.Empty(t, Filter(all, "no such case", ""))
}

func TestSummarize(t *testing.T) {
	all := []Case{
		{Status: "Active", NextHearing: "2024-05-01"},
		{Status: "active", NextHearing: "2024-04-30"},
		{Status: "Closed"},
		{Status: "Pending", NextHearing: "not-a-date"},
	}

	stats := Summarize(all, time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, Stats{TotalCases: 4, ActiveCases: 2, ClosedCases: 1, UpcomingHearings: 1}, stats)
}

func TestListTitle(t *testing.T) {
	assert.Equal(t, "All Cases", ListTitle("lawyer"))
	assert.Equal(t, "My Cases", ListTitle("client"))
	assert.Equal(t, "My Cases", ListTitle(""))
}

func withSession(s *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s != nil {
			c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		}
		c.Next()
	}
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewFixtureRepository())

	r := gin.New()
	r.Use(withSession(&session.Session{Role: "lawyer"}))
	r.GET("/api/cases", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cases?search=court&status=Active", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "All Cases", resp.Title)
	assert.Equal(t, 3, resp.Count)
}

func TestHandler_ListWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewFixtureRepository())

	r := gin.New()
	r.GET("/api/cases", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cases", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewFixtureRepository())
	h.now = func() time.Time { return time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(withSession(&session.Session{Role: "client", Name: "Ann"}))
	r.GET("/api/dashboard", h.Dashboard)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats Stats  `json:"stats"`
		Cases []Case `json:"cases"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, Stats{TotalCases: 2, ActiveCases: 2, UpcomingHearings: 1}, resp.Stats)
	assert.Len(t, resp.Cases, 2)
}
