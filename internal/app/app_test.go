package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/threadsync/threadsync/internal/service/mocks"
	"github.com/threadsync/threadsync/internal/telemetry"
	"github.com/threadsync/threadsync/internal/tracking"
)

// mockCoordinator implements the coordinator.Coordinator interface for testing
type mockCoordinator struct {
	mu          sync.Mutex
	startCalled bool
	stopCalled  bool
	stopErr     error
}

func (m *mockCoordinator) Start(ctx context.Context) error {
	m.mu.Lock()
	m.startCalled = true
	m.mu.Unlock()

	<-ctx.Done()
	return nil
}

func (m *mockCoordinator) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return m.stopErr
}

func (m *mockCoordinator) wasStartCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalled
}

func (m *mockCoordinator) wasStopCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalled
}

// createTestApp creates a ThreadSyncApp around a mocked service and coordinator
func createTestApp(t *testing.T, ctrl *gomock.Controller, gateway Gateway) *ThreadSyncApp {
	t.Helper()

	mockSvc := mocks.NewMockService(ctrl)
	mockSvc.EXPECT().CheckReadiness(gomock.Any()).Return(nil).AnyTimes()

	components := &AppComponents{
		SyncCoordinator: &mockCoordinator{},
		Service:         mockSvc,
		Gateway:         gateway,
		Store:           tracking.NewMemoryStore(),
	}

	appCfg, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress("127.0.0.1:0"))
	require.NoError(t, err)
	appCfg.telemetry, err = telemetry.New(context.Background())
	require.NoError(t, err)
	components.Telemetry = appCfg.telemetry

	server, err := buildHTTPServer(appCfg, components)
	require.NoError(t, err)

	appCtx, cancel := context.WithCancel(context.Background())
	return &ThreadSyncApp{
		config:     appCfg.config,
		components: components,
		httpServer: server,
		ctx:        appCtx,
		cancelFunc: cancel,
	}
}

func TestThreadSyncApp_ServeAndStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		gateway func() *fakeGateway
	}{
		{
			name:    "with gateway",
			gateway: newFakeGateway,
		},
		{
			name:    "without gateway",
			gateway: func() *fakeGateway { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			gateway := tt.gateway()
			var gw Gateway
			if gateway != nil {
				gw = gateway
			}
			app := createTestApp(t, ctrl, gw)

			listener, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)
			addr := listener.Addr().String()

			errChan := make(chan error, 1)
			go func() {
				errChan <- app.serve(listener)
			}()

			require.Eventually(t, func() bool {
				resp, err := http.Get("http://" + addr + "/health")
				if err != nil {
					return false
				}
				resp.Body.Close()
				return resp.StatusCode == http.StatusOK
			}, 5*time.Second, 20*time.Millisecond)

			mockCoord := app.components.SyncCoordinator.(*mockCoordinator)
			require.Eventually(t, mockCoord.wasStartCalled, 5*time.Second, 10*time.Millisecond)

			require.NoError(t, app.Stop(5*time.Second))
			assert.True(t, mockCoord.wasStopCalled())
			if gateway != nil {
				assert.True(t, gateway.stopped)
			}

			select {
			case startErr := <-errChan:
				require.NoError(t, startErr)
			case <-time.After(5 * time.Second):
				t.Fatal("serve did not return after Stop()")
			}
		})
	}
}

func TestThreadSyncApp_GatewayFailureAbortsStart(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := newFakeGateway()
	gateway.err = errors.New("guild guild-1 not found")
	app := createTestApp(t, ctrl, gateway)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = app.serve(listener)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guild guild-1 not found")

	mockCoord := app.components.SyncCoordinator.(*mockCoordinator)
	assert.False(t, mockCoord.wasStartCalled())
}

func TestThreadSyncApp_StopCoordinatorErrorIsLogged(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, nil)
	app.components.SyncCoordinator.(*mockCoordinator).stopErr = errors.New("boom")

	require.NoError(t, app.Stop(time.Second))
}

func TestThreadSyncApp_StartInvalidAddress(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := createTestApp(t, ctrl, nil)
	app.httpServer.Addr = "256.0.0.1:80"

	err := app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
