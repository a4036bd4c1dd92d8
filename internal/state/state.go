// Package state owns the in-process dataset: one mutable snapshot shared by
// the UI layer and the sync scheduler.
//
// All mutation goes through AppState methods, which bump entity timestamps,
// derive assessment status, emit NOK notifications, persist through the local
// store and invoke the change hook the scheduler uses to mark the dataset
// dirty. A mutex preserves the single-writer semantics of the design.
package state

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/merge"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/store"
)

type AppState struct {
	mu       sync.Mutex
	log      logging.Logger
	store    *store.Store
	snap     *model.Snapshot
	onChange func()
}

// Load builds the application state from the local store. An unparseable
// persisted dataset falls back to the built-in default dataset; a completely
// empty store is seeded the same way.
func Load(ctx context.Context, st *store.Store, log logging.Logger) (*AppState, error) {
	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		log.Warn(ctx, "local dataset unreadable, falling back to defaults", "error", err)
		snap = model.SeedSnapshot()
	} else if len(snap.Users) == 0 && snap.Config == nil {
		log.Info(ctx, "empty local store, seeding default dataset")
		snap = model.SeedSnapshot()
	}

	a := &AppState{log: log, store: st, snap: snap}
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return a, nil
}

// SetOnChange registers the hook invoked after every local mutation.
// The scheduler uses it to schedule a debounced push.
func (a *AppState) SetOnChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Snapshot returns a copy of the current dataset safe to hand to the codec
// while mutations continue. Collection slices are copied; the items inside
// are never mutated in place, only replaced, so sharing them is safe.
func (a *AppState) Snapshot() *model.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copySnapshotLocked()
}

func (a *AppState) copySnapshotLocked() *model.Snapshot {
	out := &model.Snapshot{
		Users:         append([]model.User(nil), a.snap.Users...),
		Assessments:   append([]model.Assessment(nil), a.snap.Assessments...),
		Meetings:      append([]model.Meeting(nil), a.snap.Meetings...),
		Notifications: append([]model.Notification(nil), a.snap.Notifications...),
		LastUpdated:   a.snap.LastUpdated,
	}
	if a.snap.Config != nil {
		cfg := *a.snap.Config
		out.Config = &cfg
	}
	return out
}

// ApplyRemote merges a pulled snapshot into the local dataset and persists
// the result. Collections absent from the remote snapshot are skipped.
// The change hook is deliberately not invoked: pull-triggered changes must
// not schedule an echoing push.
func (a *AppState) ApplyRemote(ctx context.Context, remote *model.Snapshot) error {
	if remote == nil {
		return nil
	}

	a.mu.Lock()
	if remote.Users != nil {
		a.snap.Users = merge.ByID(a.snap.Users, remote.Users)
	}
	if remote.Assessments != nil {
		a.snap.Assessments = merge.ByID(a.snap.Assessments, remote.Assessments)
	}
	if remote.Meetings != nil {
		a.snap.Meetings = merge.ByID(a.snap.Meetings, remote.Meetings)
	}
	if remote.Notifications != nil {
		a.snap.Notifications = merge.ByID(a.snap.Notifications, remote.Notifications)
	}
	a.snap.Config = merge.Config(a.snap.Config, a.snap.LastUpdated, remote.Config, remote.LastUpdated)
	if remote.LastUpdated > a.snap.LastUpdated {
		a.snap.LastUpdated = remote.LastUpdated
	}
	snap := a.copySnapshotLocked()
	a.mu.Unlock()

	return a.store.SaveSnapshot(ctx, snap)
}

// ResetToDefaults discards the in-memory dataset and restores the seeded
// defaults, persisting them. The change hook is not invoked: a reset is not
// a mutation that should be pushed anywhere.
func (a *AppState) ResetToDefaults(ctx context.Context) error {
	a.mu.Lock()
	a.snap = model.SeedSnapshot()
	snap := a.copySnapshotLocked()
	a.mu.Unlock()

	return a.store.SaveSnapshot(ctx, snap)
}

// persist writes the dataset and fires the change hook. Persistence
// failures are logged and swallowed: the in-memory dataset stays
// authoritative and the next successful save self-heals.
func (a *AppState) persist(ctx context.Context, hook func()) {
	a.mu.Lock()
	snap := a.copySnapshotLocked()
	a.mu.Unlock()

	if err := a.store.SaveSnapshot(ctx, snap); err != nil {
		a.log.Error(ctx, "failed to persist dataset", "error", err)
	}
	if hook != nil {
		hook()
	}
}

func (a *AppState) changeHook() func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.onChange
}

// Config returns the active workspace configuration.
func (a *AppState) Config() model.AppConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.snap.Config == nil {
		return model.DefaultConfig()
	}
	return *a.snap.Config
}

// UpdateConfig replaces the workspace configuration.
func (a *AppState) UpdateConfig(ctx context.Context, cfg model.AppConfig) {
	a.mu.Lock()
	a.snap.Config = &cfg
	a.snap.LastUpdated = model.NowMillis()
	a.mu.Unlock()
	a.persist(ctx, a.changeHook())
}

// Users returns all accounts, active or not.
func (a *AppState) Users() []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.User(nil), a.snap.Users...)
}

// FindUserByUsername looks up an account by its (case-insensitive) username.
func (a *AppState) FindUserByUsername(username string) (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.snap.Users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return model.User{}, false
}

// FindUserByID looks up an account by id.
func (a *AppState) FindUserByID(id string) (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.snap.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// SaveUser inserts or updates an account and stamps it.
func (a *AppState) SaveUser(ctx context.Context, u model.User) model.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Timestamp = model.NowMillis()

	a.mu.Lock()
	replaced := false
	for i := range a.snap.Users {
		if a.snap.Users[i].ID == u.ID {
			a.snap.Users[i] = u
			replaced = true
			break
		}
	}
	if !replaced {
		a.snap.Users = append([]model.User{u}, a.snap.Users...)
	}
	a.snap.LastUpdated = u.Timestamp
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
	return u
}

// Assessments returns the live (non-tombstoned) assessments, newest first.
func (a *AppState) Assessments() []model.Assessment {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Assessment, 0, len(a.snap.Assessments))
	for _, item := range a.snap.Assessments {
		if !item.Deleted() {
			out = append(out, item)
		}
	}
	return out
}

// FindAssessment returns a live assessment by id.
func (a *AppState) FindAssessment(id string) (model.Assessment, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, item := range a.snap.Assessments {
		if item.ID == id && !item.Deleted() {
			return item, true
		}
	}
	return model.Assessment{}, false
}

// AddAssessment stamps and stores a new assessment. An assessment entering
// the NOK status raises a notification referencing it.
func (a *AppState) AddAssessment(ctx context.Context, item model.Assessment) model.Assessment {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Timestamp = model.NowMillis()
	item.Status = item.DeriveStatus()

	a.mu.Lock()
	a.snap.Assessments = append([]model.Assessment{item}, a.snap.Assessments...)
	a.snap.LastUpdated = item.Timestamp
	if item.Status == model.StatusNOK {
		a.raiseNOKLocked(item)
	}
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
	return item
}

// UpdateAssessment re-derives status, stamps and stores the assessment.
// A transition into NOK raises a notification; a transition into RESOLVED
// marks the related notifications read.
func (a *AppState) UpdateAssessment(ctx context.Context, item model.Assessment) model.Assessment {
	item.Timestamp = model.NowMillis()
	item.Status = item.DeriveStatus()

	a.mu.Lock()
	var previous model.Status
	for i := range a.snap.Assessments {
		if a.snap.Assessments[i].ID == item.ID {
			previous = a.snap.Assessments[i].Status
			a.snap.Assessments[i] = item
			break
		}
	}
	a.snap.LastUpdated = item.Timestamp
	if item.Status == model.StatusNOK && previous != model.StatusNOK {
		a.raiseNOKLocked(item)
	}
	if item.Status == model.StatusResolved {
		for i := range a.snap.Notifications {
			if a.snap.Notifications[i].RelatedID == item.ID && !a.snap.Notifications[i].Read {
				a.snap.Notifications[i].Read = true
				a.snap.Notifications[i].Timestamp = item.Timestamp
			}
		}
	}
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
	return item
}

// DeleteAssessment tombstones an assessment so the deletion propagates
// through merge instead of being resurrected by a stale remote copy.
func (a *AppState) DeleteAssessment(ctx context.Context, id string) {
	now := model.NowMillis()

	a.mu.Lock()
	for i := range a.snap.Assessments {
		if a.snap.Assessments[i].ID == id {
			a.snap.Assessments[i].DeletedAt = now
			a.snap.Assessments[i].Timestamp = now
			a.snap.LastUpdated = now
			break
		}
	}
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
}

func (a *AppState) raiseNOKLocked(item model.Assessment) {
	n := model.Notification{
		ID:        uuid.NewString(),
		Type:      model.NotificationNOK,
		Title:     "Nieuwe NOK melding",
		Message:   "Project " + item.Title + " is gemarkeerd als onveilig door " + item.UserName + ".",
		Timestamp: item.Timestamp,
		RelatedID: item.ID,
	}
	a.snap.Notifications = append([]model.Notification{n}, a.snap.Notifications...)
}

// Meetings returns the live kick-off meetings, newest first.
func (a *AppState) Meetings() []model.Meeting {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Meeting, 0, len(a.snap.Meetings))
	for _, m := range a.snap.Meetings {
		if !m.Deleted() {
			out = append(out, m)
		}
	}
	return out
}

// AddMeeting stamps and stores a new kick-off meeting.
func (a *AppState) AddMeeting(ctx context.Context, m model.Meeting) model.Meeting {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Timestamp = model.NowMillis()

	a.mu.Lock()
	a.snap.Meetings = append([]model.Meeting{m}, a.snap.Meetings...)
	a.snap.LastUpdated = m.Timestamp
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
	return m
}

// UpdateMeeting stamps and stores an edited meeting.
func (a *AppState) UpdateMeeting(ctx context.Context, m model.Meeting) model.Meeting {
	m.Timestamp = model.NowMillis()

	a.mu.Lock()
	for i := range a.snap.Meetings {
		if a.snap.Meetings[i].ID == m.ID {
			a.snap.Meetings[i] = m
			break
		}
	}
	a.snap.LastUpdated = m.Timestamp
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
	return m
}

// DeleteMeeting tombstones a meeting.
func (a *AppState) DeleteMeeting(ctx context.Context, id string) {
	now := model.NowMillis()

	a.mu.Lock()
	for i := range a.snap.Meetings {
		if a.snap.Meetings[i].ID == id {
			a.snap.Meetings[i].DeletedAt = now
			a.snap.Meetings[i].Timestamp = now
			a.snap.LastUpdated = now
			break
		}
	}
	a.mu.Unlock()

	a.persist(ctx, a.changeHook())
}

// Notifications returns all notifications, newest first.
func (a *AppState) Notifications() []model.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Notification(nil), a.snap.Notifications...)
}

// UnreadCount returns the number of unread notifications.
func (a *AppState) UnreadCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, item := range a.snap.Notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkNotificationsRead marks every notification read.
func (a *AppState) MarkNotificationsRead(ctx context.Context) {
	now := model.NowMillis()

	a.mu.Lock()
	changed := false
	for i := range a.snap.Notifications {
		if !a.snap.Notifications[i].Read {
			a.snap.Notifications[i].Read = true
			a.snap.Notifications[i].Timestamp = now
			changed = true
		}
	}
	if changed {
		a.snap.LastUpdated = now
	}
	a.mu.Unlock()

	if changed {
		a.persist(ctx, a.changeHook())
	}
}
