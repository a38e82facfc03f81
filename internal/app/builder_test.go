package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/threadsync/threadsync/internal/api"
	"github.com/threadsync/threadsync/internal/config"
	"github.com/threadsync/threadsync/internal/issues"
	issuesmocks "github.com/threadsync/threadsync/internal/issues/mocks"
	"github.com/threadsync/threadsync/internal/status"
	"github.com/threadsync/threadsync/internal/sync/coordinator"
	"github.com/threadsync/threadsync/internal/threads"
	threadsmocks "github.com/threadsync/threadsync/internal/threads/mocks"
	"github.com/threadsync/threadsync/internal/tracking"
)

// createValidTestConfig creates a minimal valid config for testing
func createValidTestConfig() *config.Config {
	return &config.Config{
		GitHub: config.GitHubConfig{
			Token:    "ghp_test",
			Owner:    "acme",
			Repo:     "widgets",
			PageSize: 30,
		},
		Discord: config.DiscordConfig{
			Token:     "discord-test",
			GuildID:   "guild-1",
			ForumName: "github-issues",
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Sync: config.SyncConfig{
			ReconcileInterval: 5 * time.Minute,
			ReminderInterval:  5 * time.Minute,
			PruneClosed:       true,
			MessageLimit:      2000,
		},
		Create: config.CreateConfig{SelectionTimeout: 10 * time.Second},
		Server: config.ServerConfig{Address: ":8080"},
	}
}

func TestBaseConfig(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithConfig(createValidTestConfig()))
	require.NoError(t, err)
	assert.Equal(t, ":8080", built.address)
	assert.Equal(t, defaultRequestTimeout, built.requestTimeout)
	assert.False(t, built.autoMigrate)
}

func TestBaseConfig_RequiresConfig(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithAddress(":9090"))
	require.Error(t, err)
	assert.Nil(t, built)
}

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "port only", addr: ":9090"},
		{name: "localhost", addr: "localhost:9090"},
		{name: "ipv4", addr: "10.0.0.1:80"},
		{name: "empty", addr: "", wantErr: true},
		{name: "missing port", addr: ":", wantErr: true},
		{name: "no separator", addr: "9090", wantErr: true},
		{name: "invalid host", addr: "not-an-ip:9090", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			built, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress(tt.addr))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, built.address)
		})
	}
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	built, err := baseConfig(WithConfig(createValidTestConfig()), WithMiddlewares(mw, mw))
	require.NoError(t, err)
	assert.Len(t, built.middlewares, 2)
}

func TestNewThreadSyncApp_Wiring(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cfg := createValidTestConfig()
	cfg.Sync.StatusDir = t.TempDir()

	app, err := NewThreadSyncApp(context.Background(),
		WithConfig(cfg),
		WithAddress("127.0.0.1:0"),
		WithIssueSource(issuesmocks.NewMockSource(ctrl)),
		WithThreadSink(threadsmocks.NewMockSink(ctrl)),
	)
	require.NoError(t, err)

	components := app.GetComponents()
	require.NotNil(t, components.SyncCoordinator)
	require.NotNil(t, components.Service)
	require.NotNil(t, components.Store)
	require.NotNil(t, components.Telemetry)
	assert.Nil(t, components.Gateway)
	assert.Equal(t, "acme/widgets", components.Service.Repository())

	var names []string
	for _, s := range components.Statuses.All() {
		names = append(names, s.Name)
		assert.Equal(t, status.TaskPhaseIdle, s.Phase)
	}
	assert.Equal(t, []string{coordinator.TaskArchiveSweep, coordinator.TaskReconcile, coordinator.TaskReminder}, names)

	assert.Equal(t, "127.0.0.1:0", app.GetHTTPServer().Addr)
	assert.Same(t, cfg, app.GetConfig())
	require.NoError(t, app.Stop(time.Second))
}

func TestNewThreadSyncApp_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := createValidTestConfig()
	cfg.Database.Driver = "mysql"

	app, err := NewThreadSyncApp(context.Background(), WithConfig(cfg))
	require.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), "mapping store")
}

// fakeGateway records the lifecycle calls of the app
type fakeGateway struct {
	started chan struct{}
	stopped bool
	err     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{started: make(chan struct{})}
}

func (g *fakeGateway) Start(context.Context) error {
	if g.err != nil {
		return g.err
	}
	close(g.started)
	return nil
}

func (g *fakeGateway) Stop() error {
	g.stopped = true
	return nil
}

func TestNewThreadSyncApp_RunsTasksAndServesStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	issue := issues.Issue{
		Number:  7,
		Title:   "Crash on start",
		Body:    "It crashes.",
		HTMLURL: "https://github.com/acme/widgets/issues/7",
		State:   "open",
	}

	source := issuesmocks.NewMockSource(ctrl)
	source.EXPECT().ListOpenIssues(gomock.Any(), "acme", "widgets", 1, 30).
		Return([]issues.Issue{issue}, nil).MinTimes(1)
	source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 7).Return(&issue, nil).AnyTimes()

	sink := threadsmocks.NewMockSink(ctrl)
	sink.EXPECT().AvailableTags(gomock.Any()).Return(nil, nil).AnyTimes()
	sink.EXPECT().CreateThread(gomock.Any(), gomock.Any()).
		Return(&threads.Thread{ID: "thread-7"}, nil).Times(1)
	sink.EXPECT().ArchivedThreads(gomock.Any()).Return(nil, nil).AnyTimes()
	sink.EXPECT().SendMessage(gomock.Any(), "thread-7", gomock.Any()).Return(nil).AnyTimes()

	store := tracking.NewMemoryStore()
	gateway := newFakeGateway()

	app, err := NewThreadSyncApp(context.Background(),
		WithConfig(createValidTestConfig()),
		WithIssueSource(source),
		WithThreadSink(sink),
		WithStore(store),
		WithGateway(gateway),
		WithCoordinatorOptions(coordinator.WithClock(clocktesting.NewFakeClock(time.Now()))),
	)
	require.NoError(t, err)
	assert.Same(t, gateway, app.GetComponents().Gateway)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + listener.Addr().String()

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.serve(listener)
	}()

	select {
	case <-gateway.started:
	case <-time.After(5 * time.Second):
		t.Fatal("gateway was not started")
	}

	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/tracked")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var tracked api.TrackedResponse
		if err := json.NewDecoder(resp.Body).Decode(&tracked); err != nil {
			return false
		}
		return tracked.Count == 1 && tracked.Issues[0].ThreadID == "thread-7"
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(baseURL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var statusResp api.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statusResp))
	assert.Equal(t, "acme/widgets", statusResp.Repository)
	assert.Len(t, statusResp.Tasks, 3)

	require.NoError(t, app.Stop(5*time.Second))
	assert.True(t, gateway.stopped)

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after Stop()")
	}
}
