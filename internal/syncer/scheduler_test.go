package syncer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/vcabel/safework/internal/common"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/state"
	"github.com/vcabel/safework/internal/store"
)

// fakeGateway is an in-memory Gateway recording every call.
type fakeGateway struct {
	mu      sync.Mutex
	snap    *model.Snapshot
	pullErr error
	pushErr error
	pulls   int
	pushes  []*model.Snapshot
	block   chan struct{} // when set, Pull parks until the channel closes
}

func (f *fakeGateway) Pull(ctx context.Context, workspaceID string) (*model.Snapshot, error) {
	f.mu.Lock()
	f.pulls++
	block := f.block
	snap, err := f.snap, f.pullErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return snap, err
}

func (f *fakeGateway) Push(ctx context.Context, workspaceID string, snap *model.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, snap)
	return nil
}

func (f *fakeGateway) Create(ctx context.Context, snap *model.Snapshot) (string, error) {
	return "ws-created", nil
}

func (f *fakeGateway) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func newTestState(t *testing.T) *state.AppState {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	a, err := state.Load(ctx, st, logging.New(io.Discard, slog.LevelError))
	require.NoError(t, err)
	return a
}

func fastConfig() Config {
	return Config{
		PullInterval:   time.Hour, // ticks driven manually in tests
		PushDebounce:   20 * time.Millisecond,
		GuardWindow:    80 * time.Millisecond,
		RequestTimeout: time.Second,
	}
}

func newScheduler(t *testing.T, gw *fakeGateway) (*Scheduler, *state.AppState) {
	t.Helper()
	data := newTestState(t)
	s := New(gw, data, fastConfig(), logging.New(io.Discard, slog.LevelError))
	s.SetWorkspace("ws1")
	t.Cleanup(s.Teardown)
	return s, data
}

func TestPull_MergesRemoteIntoState(t *testing.T) {
	gw := &fakeGateway{snap: &model.Snapshot{
		Assessments: []model.Assessment{{ID: "r1", Title: "remote", Timestamp: model.NowMillis()}},
		LastUpdated: model.NowMillis(),
	}}
	s, data := newScheduler(t, gw)

	s.Pull(context.Background())

	items := data.Assessments()
	require.Len(t, items, 1)
	assert.Equal(t, "remote", items[0].Title)
	assert.Equal(t, StateSettling, s.Status().State)

	require.Eventually(t, func() bool {
		return s.Status().State == StateIdle
	}, time.Second, 5*time.Millisecond)
}

func TestPull_NotNewerSkipsMerge(t *testing.T) {
	remote := &model.Snapshot{
		Assessments: []model.Assessment{{ID: "r1", Timestamp: 100}},
		LastUpdated: 100,
	}
	gw := &fakeGateway{snap: remote}
	s, data := newScheduler(t, gw)

	s.Pull(context.Background())
	require.Eventually(t, func() bool { return s.Status().State == StateIdle }, time.Second, 5*time.Millisecond)

	// Same lastUpdated again: no second settle window.
	s.Pull(context.Background())
	assert.Equal(t, StateIdle, s.Status().State)
	require.Len(t, data.Assessments(), 1)
}

func TestInitialPullGate_NoPushBeforeFirstPull(t *testing.T) {
	gw := &fakeGateway{}
	s, data := newScheduler(t, gw)

	data.AddAssessment(context.Background(), model.Assessment{Title: "local"})
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, gw.pushCount(), "push must wait for the first pull attempt")

	// A confirmed-empty pull opens the gate; the pending change pushes.
	s.Pull(context.Background())
	require.Eventually(t, func() bool { return gw.pushCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ws1", s.Workspace())
}

func TestInitialPullGate_FailedPullKeepsGateClosed(t *testing.T) {
	gw := &fakeGateway{pullErr: context.DeadlineExceeded}
	s, data := newScheduler(t, gw)

	s.Pull(context.Background())
	assert.Equal(t, StateIdle, s.Status().State)
	assert.False(t, s.Status().PulledOnce)

	data.AddAssessment(context.Background(), model.Assessment{Title: "local"})
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, gw.pushCount())
}

func TestEchoSuppression_MutationDuringGuardWindowDefersPush(t *testing.T) {
	gw := &fakeGateway{snap: &model.Snapshot{
		Assessments: []model.Assessment{{ID: "r1", Timestamp: model.NowMillis()}},
		LastUpdated: model.NowMillis(),
	}}
	s, data := newScheduler(t, gw)

	s.Pull(context.Background())
	require.Equal(t, StateSettling, s.Status().State)

	data.AddAssessment(context.Background(), model.Assessment{Title: "during guard"})

	// Inside the guard window (80ms) plus debounce (20ms) nothing may fire.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, gw.pushCount(), "push fired inside the guard window")

	require.Eventually(t, func() bool { return gw.pushCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestPush_Debounced(t *testing.T) {
	gw := &fakeGateway{}
	s, data := newScheduler(t, gw)
	s.Pull(context.Background()) // open the gate

	ctx := context.Background()
	data.AddAssessment(ctx, model.Assessment{Title: "one"})
	data.AddAssessment(ctx, model.Assessment{Title: "two"})
	data.AddAssessment(ctx, model.Assessment{Title: "three"})

	require.Eventually(t, func() bool { return gw.pushCount() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, gw.pushCount(), "rapid mutations must collapse into one push")

	require.Len(t, gw.pushes[0].Assessments, 3)
}

func TestPush_FailureIsTerminalNoRetry(t *testing.T) {
	gw := &fakeGateway{pushErr: context.DeadlineExceeded}
	s, data := newScheduler(t, gw)
	s.Pull(context.Background())

	data.AddAssessment(context.Background(), model.Assessment{Title: "doomed"})

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, gw.pushCount())
	assert.Equal(t, StateIdle, s.Status().State)

	// The next mutation schedules a fresh attempt.
	gw.mu.Lock()
	gw.pushErr = nil
	gw.mu.Unlock()
	data.AddAssessment(context.Background(), model.Assessment{Title: "retried by new change"})
	require.Eventually(t, func() bool { return gw.pushCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSetWorkspace_DiscardsInflightPull(t *testing.T) {
	block := make(chan struct{})
	gw := &fakeGateway{
		snap: &model.Snapshot{
			Assessments: []model.Assessment{{ID: "stale", Timestamp: model.NowMillis()}},
			LastUpdated: model.NowMillis(),
		},
		block: block,
	}
	s, data := newScheduler(t, gw)

	done := make(chan struct{})
	go func() {
		s.Pull(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Status().State == StatePulling }, time.Second, time.Millisecond)
	s.SetWorkspace("ws2")
	close(block)
	<-done

	// The stale completion was dropped: nothing merged, session idle.
	assert.Empty(t, data.Assessments())
	assert.Equal(t, StateIdle, s.Status().State)
	assert.False(t, s.Status().PulledOnce)
}

func TestMarkDirty_WithoutWorkspaceIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	data := newTestState(t)
	s := New(gw, data, fastConfig(), logging.New(io.Discard, slog.LevelError))
	t.Cleanup(s.Teardown)

	data.AddAssessment(context.Background(), model.Assessment{Title: "no workspace yet"})
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, gw.pushCount())
	assert.False(t, s.Status().Dirty)
}

func TestRun_PullsImmediatelyAndStopsOnCancel(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newScheduler(t, gw)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return gw.pulls >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestPull_ReportsSentinelErrors(t *testing.T) {
	gw := &fakeGateway{pullErr: context.DeadlineExceeded}
	data := newTestState(t)
	s := New(gw, data, fastConfig(), logging.New(io.Discard, slog.LevelError))
	t.Cleanup(s.Teardown)

	assert.ErrorIs(t, s.Pull(context.Background()), common.ErrorNoWorkspace)

	s.SetWorkspace("ws1")
	assert.ErrorIs(t, s.Pull(context.Background()), common.ErrorRemoteUnavailable)

	block := make(chan struct{})
	gw.mu.Lock()
	gw.pullErr = nil
	gw.block = block
	gw.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = s.Pull(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return s.Status().State == StatePulling }, time.Second, time.Millisecond)
	assert.ErrorIs(t, s.Pull(context.Background()), common.ErrorSyncBusy)
	close(block)
	<-done
}

// mergeBlockingData parks inside ApplyRemote so tests can interleave a
// workspace switch with a merge in progress.
type mergeBlockingData struct {
	*state.AppState
	entered chan struct{}
	release chan struct{}
}

func (d *mergeBlockingData) ApplyRemote(ctx context.Context, remote *model.Snapshot) error {
	close(d.entered)
	<-d.release
	return d.AppState.ApplyRemote(ctx, remote)
}

func TestSetWorkspace_WaitsForMergeInProgress(t *testing.T) {
	data := &mergeBlockingData{
		AppState: newTestState(t),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	gw := &fakeGateway{snap: &model.Snapshot{
		Assessments: []model.Assessment{{ID: "r1", Title: "remote", Timestamp: model.NowMillis()}},
		LastUpdated: model.NowMillis(),
	}}
	s := New(gw, data, fastConfig(), logging.New(io.Discard, slog.LevelError))
	s.SetWorkspace("ws1")
	t.Cleanup(s.Teardown)

	pulled := make(chan struct{})
	go func() {
		_ = s.Pull(context.Background())
		close(pulled)
	}()
	<-data.entered

	// The switch must not interleave with the merge: it has to wait until
	// the snapshot has landed, so the write can never target a workspace
	// that is no longer current.
	switched := make(chan struct{})
	go func() {
		s.SetWorkspace("ws2")
		close(switched)
	}()
	select {
	case <-switched:
		t.Fatal("workspace switch completed while a merge was still writing")
	case <-time.After(50 * time.Millisecond):
	}

	close(data.release)
	<-pulled
	<-switched

	// The merge landed for the old workspace before the switch took hold.
	items := data.Assessments()
	require.Len(t, items, 1)
	assert.Equal(t, "remote", items[0].Title)
	assert.Equal(t, "ws2", s.Workspace())
	assert.Equal(t, StateIdle, s.Status().State)
	assert.False(t, s.Status().PulledOnce)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pulling", StatePulling.String())
	assert.Equal(t, "merging", StateMerging.String())
	assert.Equal(t, "settling", StateSettling.String())
	assert.Equal(t, "pushing", StatePushing.String())
}
