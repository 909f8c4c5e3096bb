package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adhi/internal/cases"
	"adhi/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRepository fails every call
type brokenRepository struct{}

func (brokenRepository) List(ctx context.Context, role string) ([]Event, error) {
	return nil, errors.New("connection reset")
}

func (brokenRepository) Create(ctx context.Context, role string, event Event) error {
	return errors.New("connection reset")
}

func newTestService() *Service {
	return NewService(NewMemoryRepository(), cases.NewFixtureRepository())
}

func validEvent() CreateEventRequest {
	return CreateEventRequest{
		Title:    "Mediation",
		Date:     "2023-06-18",
		Time:     "9:30 AM",
		Type:     "client_meeting",
		Location: "Chambers",
		Case:     "Smith v. Johnson",
	}
}

func TestMemoryRepository_ScopedByRole(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	lawyer, err := repo.List(ctx, "lawyer")
	require.NoError(t, err)
	client, err := repo.List(ctx, "client")
	require.NoError(t, err)
	other, err := repo.List(ctx, "paralegal")
	require.NoError(t, err)

	assert.Len(t, lawyer, 3)
	assert.Len(t, client, 2)
	assert.Equal(t, client, other)

	require.NoError(t, repo.Create(ctx, "lawyer", Event{ID: "x", Title: "Extra", Date: "2023-01-01", Type: "hearing"}))
	after, err := repo.List(ctx, "client")
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

func TestMemoryRepository_OrdersByDateAndTime(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "lawyer", Event{ID: "late", Title: "Late", Date: "2023-06-15", Time: "4:00 PM", Type: "hearing"}))
	require.NoError(t, repo.Create(ctx, "lawyer", Event{ID: "untimed", Title: "Untimed", Date: "2023-06-15", Type: "court_visit"}))

	all, err := repo.List(ctx, "lawyer")
	require.NoError(t, err)

	var ids []string
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"event-2", "untimed", "event-1", "late", "event-3"}, ids)
}

func TestService_ListFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	june, err := svc.List(ctx, "lawyer", "2023-06", "")
	require.NoError(t, err)
	assert.Len(t, june, 2)

	day, err := svc.List(ctx, "lawyer", "2023-12", "2023-06-15")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Court Hearing", day[0].Title)
	assert.Equal(t, "#3b82f6", day[0].Color)

	_, err = svc.List(ctx, "lawyer", "June", "")
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = svc.List(ctx, "lawyer", "", "15/06/2023")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_Create(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	event, err := svc.Create(ctx, "lawyer", validEvent())
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "#10b981", event.Color)

	listed, err := svc.List(ctx, "lawyer", "", "2023-06-18")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, event.ID, listed[0].ID)
}

func TestService_CreateDefaultsToHearing(t *testing.T) {
	req := validEvent()
	req.Type = ""

	event, err := newTestService().Create(context.Background(), "lawyer", req)
	require.NoError(t, err)
	assert.Equal(t, "hearing", event.Type)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		mutate func(*CreateEventRequest)
		want   error
	}{
		{"no title", "lawyer", func(r *CreateEventRequest) { r.Title = " " }, ErrTitleRequired},
		{"bad date", "lawyer", func(r *CreateEventRequest) { r.Date = "2023-02-30" }, ErrInvalidDate},
		{"bad time", "lawyer", func(r *CreateEventRequest) { r.Time = "25:00" }, ErrInvalidTime},
		{"unknown type", "lawyer", func(r *CreateEventRequest) { r.Type = "party" }, ErrUnknownType},
		{"case of another role", "client", func(r *CreateEventRequest) {}, ErrUnknownCase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEvent()
			tt.mutate(&req)

			_, err := newTestService().Create(context.Background(), tt.role, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, "#eab308", ColorOf("court_visit"))
	assert.Equal(t, DefaultColor, ColorOf("unknown"))
}

func newRouter(svc *Service, s *session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if s != nil {
			c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		}
		c.Next()
	})
	r.GET("/api/events", h.List)
	r.GET("/api/events/types", h.Types)
	r.POST("/api/events", h.Create)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ListAndCreate(t *testing.T) {
	r := newRouter(newTestService(), &session.Session{Role: "client"})

	w := do(r, http.MethodGet, "/api/events?month=2023-06", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	req := validEvent()
	req.Case = "Insurance Claim"
	w = do(r, http.MethodPost, "/api/events", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Mediation", created.Title)

	w = do(r, http.MethodGet, "/api/events?date=2023-06-18", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)
}

func TestHandler_CreateErrors(t *testing.T) {
	r := newRouter(newTestService(), &session.Session{Role: "lawyer"})

	req := validEvent()
	req.Title = ""
	w := do(r, http.MethodPost, "/api/events", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a title for the event")

	w = do(r, http.MethodGet, "/api/events?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	broken := newRouter(NewService(brokenRepository{}, cases.NewFixtureRepository()), &session.Session{Role: "lawyer"})
	w = do(broken, http.MethodPost, "/api/events", validEvent())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	w = do(broken, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_TypesAndSession(t *testing.T) {
	w := do(newRouter(newTestService(), nil), http.MethodGet, "/api/events/types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Types []EventType `json:"types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, EventTypes, resp.Types)

	w = do(newRouter(newTestService(), nil), http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
