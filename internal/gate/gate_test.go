package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"adhi/internal/navigation"
	"adhi/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNavigator records every navigation call
type recordingNavigator struct {
	mu       sync.Mutex
	replaced []string
	pushed   []string
}

func (n *recordingNavigator) Replace(destination string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, destination)
}

func (n *recordingNavigator) Push(destination string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, destination)
}

func (n *recordingNavigator) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.replaced) + len(n.pushed)
}

func (n *recordingNavigator) replacements() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.replaced...)
}

// blockingLoader holds Load until release is closed
type blockingLoader struct {
	release chan struct{}
	entered chan struct{}
	sess    *session.Session
	err     error
}

func newBlockingLoader(sess *session.Session, err error) *blockingLoader {
	return &blockingLoader{
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
		sess:    sess,
		err:     err,
	}
}

func (l *blockingLoader) Load(ctx context.Context) (*session.Session, error) {
	l.entered <- struct{}{}
	<-l.release
	return l.sess, l.err
}

// countingLoader counts Load calls
type countingLoader struct {
	mu    sync.Mutex
	calls int
	inner Loader
}

func (l *countingLoader) Load(ctx context.Context) (*session.Session, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.inner.Load(ctx)
}

func storeWith(t *testing.T, value *string) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	if value != nil {
		require.NoError(t, store.Set(context.Background(), session.Key, *value, 0))
	}
	return store
}

func strPtr(s string) *string { return &s }

func mountAndWait(t *testing.T, g *Gate) Result {
	t.Helper()
	g.Mount(context.Background())

	select {
	case <-g.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("gate did not settle")
	}
	return g.State()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		value  *string
		status Status
		role   string
	}{
		{"absent", nil, StatusUnauthenticated, ""},
		{"empty value", strPtr(""), StatusUnauthenticated, ""},
		{"not json", strPtr("not-json"), StatusUnauthenticated, ""},
		{"json null", strPtr("null"), StatusUnauthenticated, ""},
		{"lawyer", strPtr(`{"role":"lawyer","name":"Test User","email":"t@example.com"}`), StatusAuthenticated, "lawyer"},
		{"client", strPtr(`{"role":"client"}`), StatusAuthenticated, "client"},
		{"unknown role kept verbatim", strPtr(`{"role":"Lawyer"}`), StatusAuthenticated, "Lawyer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := session.NewManager(storeWith(t, tt.value))

			res := Resolve(context.Background(), mgr, nil)
			assert.Equal(t, tt.status, res.Status)
			if tt.status == StatusAuthenticated {
				require.NotNil(t, res.Session)
				assert.Equal(t, tt.role, res.Session.Role)
			} else {
				assert.Nil(t, res.Session)
			}
		})
	}
}

func TestResolve_StoreFailure(t *testing.T) {
	loader := newBlockingLoader(nil, errors.New("i/o timeout"))
	close(loader.release)

	res := Resolve(context.Background(), loader, nil)
	assert.Equal(t, StatusUnauthenticated, res.Status)
}

func TestResolve_Idempotent(t *testing.T) {
	for _, value := range []*string{nil, strPtr("not-json"), strPtr(`{"role":"client"}`)} {
		mgr := session.NewManager(storeWith(t, value))

		first := Resolve(context.Background(), mgr, nil)
		second := Resolve(context.Background(), mgr, nil)
		assert.Equal(t, first, second)
	}
}

func TestGate_InitialStateIsPending(t *testing.T) {
	g := New(session.NewManager(session.NewMemoryStore()), &recordingNavigator{})
	assert.Equal(t, StatusPending, g.State().Status)
}

func TestGate_ScenarioA_NoEntry(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(session.NewManager(storeWith(t, nil)), nav)

	res := mountAndWait(t, g)
	assert.Equal(t, StatusUnauthenticated, res.Status)
	assert.Equal(t, []string{"/auth/login"}, nav.replacements())
}

func TestGate_ScenarioB_Lawyer(t *testing.T) {
	nav := &recordingNavigator{}
	value := `{"role":"lawyer","name":"Test User","email":"t@example.com"}`
	g := New(session.NewManager(storeWith(t, &value)), nav)

	res := mountAndWait(t, g)
	require.Equal(t, StatusAuthenticated, res.Status)
	assert.Equal(t, &session.Session{Role: "lawyer", Name: "Test User", Email: "t@example.com"}, res.Session)
	assert.Zero(t, nav.calls())

	dests := navigation.DeriveVisibleDestinations(res.Session.Role)
	cases, _ := navigation.Find(dests, navigation.KeyCases)
	assert.Equal(t, "Cases", cases.Label)
	clients, _ := navigation.Find(dests, navigation.KeyClients)
	assert.True(t, clients.Visible)
	lawyers, _ := navigation.Find(dests, navigation.KeyLawyers)
	assert.False(t, lawyers.Visible)
}

func TestGate_ScenarioC_Client(t *testing.T) {
	nav := &recordingNavigator{}
	value := `{"role":"client"}`
	g := New(session.NewManager(storeWith(t, &value)), nav)

	res := mountAndWait(t, g)
	require.Equal(t, StatusAuthenticated, res.Status)
	assert.Zero(t, nav.calls())

	dests := navigation.DeriveVisibleDestinations(res.Session.Role)
	cases, _ := navigation.Find(dests, navigation.KeyCases)
	assert.Equal(t, "My Cases", cases.Label)
	clients, _ := navigation.Find(dests, navigation.KeyClients)
	assert.False(t, clients.Visible)
	lawyers, _ := navigation.Find(dests, navigation.KeyLawyers)
	assert.True(t, lawyers.Visible)
}

func TestGate_ScenarioD_Unparseable(t *testing.T) {
	nav := &recordingNavigator{}
	value := "not-json"
	g := New(session.NewManager(storeWith(t, &value)), nav)

	res := mountAndWait(t, g)
	assert.Equal(t, StatusUnauthenticated, res.Status)
	assert.Nil(t, res.Session)
	assert.Equal(t, []string{"/auth/login"}, nav.replacements())
}

func TestGate_CustomLoginDestination(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(session.NewManager(storeWith(t, nil)), nav, WithLoginDestination("/login"))

	mountAndWait(t, g)
	assert.Equal(t, []string{"/login"}, nav.replacements())
}

func TestGate_RepeatedMountResolvesOnce(t *testing.T) {
	nav := &recordingNavigator{}
	loader := &countingLoader{inner: session.NewManager(storeWith(t, nil))}
	g := New(loader, nav)

	for i := 0; i < 5; i++ {
		g.Mount(context.Background())
	}
	<-g.Done()
	g.Mount(context.Background())

	assert.Equal(t, 1, loader.calls)
	assert.Len(t, nav.replacements(), 1)
}

func TestGate_PendingWhileLoading(t *testing.T) {
	loader := newBlockingLoader(&session.Session{Role: "client"}, nil)
	g := New(loader, &recordingNavigator{})

	g.Mount(context.Background())
	<-loader.entered
	assert.Equal(t, StatusPending, g.State().Status)

	close(loader.release)
	<-g.Done()
	assert.Equal(t, StatusAuthenticated, g.State().Status)
}

func TestGate_UnmountBeforeResolution(t *testing.T) {
	var observed []Status
	nav := &recordingNavigator{}
	loader := newBlockingLoader(nil, session.ErrSessionNotFound)
	g := New(loader, nav, WithObserver(func(s Status) { observed = append(observed, s) }))

	g.Mount(context.Background())
	<-loader.entered
	g.Unmount()
	close(loader.release)

	assert.Never(t, func() bool { return nav.calls() > 0 }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, StatusPending, g.State().Status)

	g.Unmount()
	g.Mount(context.Background())
	assert.Zero(t, nav.calls())
	assert.Empty(t, observed)
}

func TestGate_UnmountBeforeMount(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(session.NewManager(storeWith(t, nil)), nav)

	g.Unmount()
	g.Mount(context.Background())

	<-g.Done()
	assert.Never(t, func() bool { return nav.calls() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestGate_WaitUnmountsOnContextEnd(t *testing.T) {
	nav := &recordingNavigator{}
	loader := newBlockingLoader(nil, session.ErrSessionNotFound)
	g := New(loader, nav)

	ctx, cancel := context.WithCancel(context.Background())
	g.Mount(ctx)
	<-loader.entered
	cancel()

	res := g.Wait(ctx)
	assert.Equal(t, StatusPending, res.Status)

	close(loader.release)
	assert.Never(t, func() bool { return nav.calls() > 0 }, 100*time.Millisecond, 5*time.Millisecond)
}

func TestGate_ObserverSeesSettledStatus(t *testing.T) {
	var observed []Status
	value := `{"role":"lawyer"}`
	g := New(session.NewManager(storeWith(t, &value)), &recordingNavigator{},
		WithObserver(func(s Status) { observed = append(observed, s) }))

	mountAndWait(t, g)
	assert.Equal(t, []Status{StatusAuthenticated}, observed)
}

func TestStatus_MarshalText(t *testing.T) {
	for status, want := range map[Status]string{
		StatusPending:         "pending",
		StatusUnauthenticated: "unauthenticated",
		StatusAuthenticated:   "authenticated",
	} {
		got, err := status.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}
