// Package cli implements the interactive terminal client: a small REPL over
// the local application state, with the sync scheduler running in the
// background.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vcabel/safework/internal/config"
	"github.com/vcabel/safework/internal/gateway"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/services"
	"github.com/vcabel/safework/internal/state"
	"github.com/vcabel/safework/internal/store"
	"github.com/vcabel/safework/internal/syncer"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	st       *store.Store
	data     *state.AppState
	auth     *services.AuthService
	reports  *services.ReportService
	gw       gateway.Gateway
	sync     *syncer.Scheduler
	log      logging.Logger
	reader   *bufio.Reader
	user     *model.User
	teardown func()
}

// NewApp wires the store, state, gateway, scheduler and services together.
// The workspace id is restored from local settings; a -w flag or environment
// override replaces the stored value.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	data, err := state.Load(ctx, st, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	gw, err := gateway.New(ctx, gateway.Options{
		Mode:           gateway.Mode(c.GatewayMode),
		EndpointURL:    c.EndpointURL,
		S3Bucket:       c.S3Bucket,
		S3Region:       c.S3Region,
		S3BaseEndpoint: c.S3BaseEndpoint,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
	}, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	sched := syncer.New(gw, data, syncer.Config{
		PullInterval:   c.PullInterval,
		PushDebounce:   c.PushDebounce,
		GuardWindow:    c.GuardWindow,
		RequestTimeout: c.RequestTimeout,
	}, log)

	app := &App{
		config:  c,
		st:      st,
		data:    data,
		auth:    services.NewAuthService(data, st, c.SessionSecret),
		reports: services.NewReportService(data, c.ReportsDir),
		gw:      gw,
		sync:    sched,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}

	if err := app.restoreWorkspace(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

// restoreWorkspace resolves the active workspace id: an explicit config
// value wins and is persisted, otherwise the stored value applies.
func (a *App) restoreWorkspace(ctx context.Context) error {
	id := a.config.WorkspaceID
	if id != "" {
		if err := a.st.SetSetting(ctx, store.KeyWorkspaceID, id); err != nil {
			return err
		}
	} else {
		stored, err := a.st.Setting(ctx, store.KeyWorkspaceID)
		if err != nil {
			return err
		}
		id = stored
	}
	a.sync.SetWorkspace(id)
	return nil
}

// Run restores the session, starts the background sync loop and enters the
// REPL. It returns when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if user, err := a.auth.CurrentUser(ctx); err == nil {
		a.user = &user
	}

	syncCtx, cancel := context.WithCancel(ctx)
	a.teardown = cancel
	go a.sync.Run(syncCtx)

	a.Root(ctx)
}

// Close stops the sync loop and the local store.
func (a *App) Close() {
	if a.teardown != nil {
		a.teardown()
	}
	a.sync.Teardown()
	if err := a.st.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// getStatus renders the prompt suffix: the logged-in username, the unread
// notification count and the sync session state.
func (a *App) getStatus() string {
	var parts []string
	if a.user != nil {
		parts = append(parts, a.user.Username)
	}
	if n := a.data.UnreadCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("!%d", n))
	}
	st := a.sync.Status()
	if st.WorkspaceID == "" {
		parts = append(parts, "local-only")
	} else if st.State != syncer.StateIdle {
		parts = append(parts, st.State.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}
