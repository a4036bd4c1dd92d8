// Package syncer drives the periodic exchange of snapshots with the remote
// store: timed pulls, debounced pushes, echo suppression between the two,
// and the initial-pull gate that keeps a fresh install from clobbering an
// established remote dataset.
//
// One scheduler serves one workspace at a time. Pulls and pushes never run
// concurrently; a state machine (see State) doubles as the busy flag. All
// remote failures are logged and swallowed; the application keeps operating
// on local state and self-heals on the next successful cycle.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vcabel/safework/internal/common"
	"github.com/vcabel/safework/internal/gateway"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
)

// Dataset is the slice of application state the scheduler drives:
// *state.AppState satisfies it.
type Dataset interface {
	SetOnChange(fn func())
	ApplyRemote(ctx context.Context, remote *model.Snapshot) error
	Snapshot() *model.Snapshot
}

// Config carries the scheduler's timing knobs.
type Config struct {
	// PullInterval is the period between automatic pulls.
	PullInterval time.Duration
	// PushDebounce is how long after the last local mutation a push waits.
	PushDebounce time.Duration
	// GuardWindow is how long the session settles after a merge before
	// mutation-triggered pushes are considered again.
	GuardWindow time.Duration
	// RequestTimeout bounds every individual pull or push network call.
	RequestTimeout time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		PullInterval:   20 * time.Second,
		PushDebounce:   2 * time.Second,
		GuardWindow:    time.Second,
		RequestTimeout: 10 * time.Second,
	}
}

// Status is a point-in-time view of the session for display purposes.
type Status struct {
	State       State
	WorkspaceID string
	Dirty       bool
	PulledOnce  bool
	LastSyncAt  time.Time
}

// Scheduler owns the sync session for the configured workspace.
type Scheduler struct {
	cfg  Config
	gw   gateway.Gateway
	data Dataset
	log  logging.Logger

	mu          sync.Mutex
	st          State
	workspaceID string
	// generation invalidates in-flight completions and pending timers
	// after a workspace switch or teardown.
	generation int
	pulledOnce bool
	dirty      bool
	lastRemote int64
	lastSyncAt time.Time

	pushTimer   *time.Timer
	settleTimer *time.Timer
}

// New builds a scheduler and hooks it into the application state's change
// notifications.
func New(gw gateway.Gateway, data Dataset, cfg Config, log logging.Logger) *Scheduler {
	if cfg.PullInterval <= 0 {
		cfg = DefaultConfig()
	}
	s := &Scheduler{cfg: cfg, gw: gw, data: data, log: log}
	data.SetOnChange(s.MarkDirty)
	return s
}

// SetWorkspace switches the session to another workspace identifier.
// Pending timers are cancelled and in-flight completions for the previous
// workspace are discarded; an empty id disables syncing.
func (s *Scheduler) SetWorkspace(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceID = id
	s.generation++
	s.pulledOnce = false
	s.dirty = false
	s.lastRemote = 0
	s.st = StateIdle
	s.stopTimersLocked()
}

// Workspace returns the current workspace identifier.
func (s *Scheduler) Workspace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceID
}

// Status reports the session state for display.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:       s.st,
		WorkspaceID: s.workspaceID,
		Dirty:       s.dirty,
		PulledOnce:  s.pulledOnce,
		LastSyncAt:  s.lastSyncAt,
	}
}

// Run pulls on a fixed interval until ctx is cancelled. The first pull fires
// immediately.
func (s *Scheduler) Run(ctx context.Context) {
	_ = s.Pull(ctx)

	ticker := time.NewTicker(s.cfg.PullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = s.Pull(ctx)
		case <-ctx.Done():
			s.Teardown()
			return
		}
	}
}

// Teardown cancels pending timers and invalidates in-flight completions.
func (s *Scheduler) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.st = StateIdle
	s.stopTimersLocked()
}

// MarkDirty records that the local dataset changed and schedules a debounced
// push, unless the session is mid-pull or settling after a merge; in either
// case the push decision is deferred until the session returns to idle.
// Before the first completed pull attempt no push is ever scheduled.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspaceID == "" {
		return
	}
	s.dirty = true
	if s.st != StateIdle || !s.pulledOnce {
		return
	}
	s.armPushLocked()
}

// armPushLocked (re)starts the debounce timer.
func (s *Scheduler) armPushLocked() {
	gen := s.generation
	if s.pushTimer != nil {
		s.pushTimer.Stop()
	}
	s.pushTimer = time.AfterFunc(s.cfg.PushDebounce, func() { s.push(gen) })
}

// Pull performs one pull-merge cycle. It reports common.ErrorNoWorkspace
// when no workspace is configured, common.ErrorSyncBusy when another
// operation is in flight, and common.ErrorRemoteUnavailable on transport
// failures; none of these are fatal and all are also logged here, so the
// periodic loop can ignore the return value.
func (s *Scheduler) Pull(ctx context.Context) error {
	s.mu.Lock()
	if s.workspaceID == "" {
		s.mu.Unlock()
		return common.ErrorNoWorkspace
	}
	if s.st != StateIdle {
		s.mu.Unlock()
		return common.ErrorSyncBusy
	}
	s.st = StatePulling
	gen := s.generation
	workspace := s.workspaceID
	s.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	snap, err := s.gw.Pull(opCtx, workspace)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// Workspace changed while the request was in flight; the
		// result belongs to a session that no longer exists.
		return nil
	}

	if err != nil {
		// Transport failures do not open the push gate: an empty
		// local default set must not clobber a remote dataset we
		// have never been able to read.
		s.log.Warn(ctx, "pull failed", "workspace", workspace, "error", err)
		s.toIdleLocked()
		return fmt.Errorf("%w: %s", common.ErrorRemoteUnavailable, err)
	}

	s.pulledOnce = true
	s.lastSyncAt = time.Now()

	if snap == nil || snap.Empty() {
		s.log.Debug(ctx, "workspace empty on remote", "workspace", workspace)
		s.toIdleLocked()
		return nil
	}
	if s.lastRemote > 0 && snap.LastUpdated <= s.lastRemote {
		s.log.Debug(ctx, "remote snapshot not newer, skipping merge",
			"workspace", workspace, "remote", snap.LastUpdated, "known", s.lastRemote)
		s.toIdleLocked()
		return nil
	}

	// The merge runs under the mutex so a concurrent workspace switch
	// cannot slip in between the staleness check and the local write;
	// SetWorkspace blocks until the merge has landed.
	s.st = StateMerging
	if mergeErr := s.data.ApplyRemote(ctx, snap); mergeErr != nil {
		s.log.Warn(ctx, "merge persistence failed", "workspace", workspace, "error", mergeErr)
		s.toIdleLocked()
		return mergeErr
	}
	s.lastRemote = snap.LastUpdated
	s.log.Info(ctx, "merged remote snapshot",
		"workspace", workspace, "remote_stamp", snap.LastUpdated)

	// Settle: suppress mutation-triggered pushes for the guard window so
	// the merge itself is not echoed straight back to the remote.
	s.st = StateSettling
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	s.settleTimer = time.AfterFunc(s.cfg.GuardWindow, func() { s.settleExpired(gen) })
	return nil
}

func (s *Scheduler) settleExpired(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.st != StateSettling {
		return
	}
	s.settleTimer = nil
	s.toIdleLocked()
}

// toIdleLocked returns the session to idle and, if a local change is still
// waiting, arms the push debounce.
func (s *Scheduler) toIdleLocked() {
	s.st = StateIdle
	if s.dirty && s.pulledOnce {
		s.armPushLocked()
	}
}

// push performs one push attempt. Success and failure are both terminal for
// the attempt; there is no automatic retry beyond the next mutation or pull
// cycle.
func (s *Scheduler) push(gen int) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.st != StateIdle {
		// A pull started between the timer firing and now; the dirty
		// flag stays set and the push is re-evaluated after it.
		s.mu.Unlock()
		return
	}
	if !s.pulledOnce || s.workspaceID == "" {
		s.mu.Unlock()
		return
	}
	s.st = StatePushing
	s.dirty = false
	workspace := s.workspaceID
	s.mu.Unlock()

	snap := s.data.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	err := s.gw.Push(ctx, workspace, snap)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	if err != nil {
		s.log.Warn(context.Background(), "push failed", "workspace", workspace, "error", err)
	} else {
		s.lastRemote = snap.LastUpdated
		s.lastSyncAt = time.Now()
		s.log.Info(context.Background(), "pushed local snapshot",
			"workspace", workspace, "stamp", snap.LastUpdated)
	}
	s.toIdleLocked()
}

func (s *Scheduler) stopTimersLocked() {
	if s.pushTimer != nil {
		s.pushTimer.Stop()
		s.pushTimer = nil
	}
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
}
