package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vcabel/safework/internal/common"
	"github.com/vcabel/safework/internal/store"
)

// ShowStatus prints the workspace, gateway and sync session state.
func (a *App) ShowStatus(ctx context.Context) error {
	st := a.sync.Status()

	if st.WorkspaceID == "" {
		printlnFn("Workspace: none (local-only mode, create one with 'wsnew' or join with 'wsjoin <id>')")
	} else {
		printlnFn("Workspace:", st.WorkspaceID)
	}
	printlnFn("Gateway:  ", a.config.GatewayMode)
	printlnFn("Sync state:", st.State.String())
	if st.Dirty {
		printlnFn("Local changes pending upload.")
	}
	if !st.LastSyncAt.IsZero() {
		printlnFn("Last sync: ", st.LastSyncAt.Format(time.RFC1123))
	}
	return nil
}

// SyncNow triggers an immediate pull-merge cycle.
func (a *App) SyncNow(ctx context.Context) error {
	err := a.sync.Pull(ctx)
	switch {
	case errors.Is(err, common.ErrorNoWorkspace):
		printlnFn("No workspace configured.")
		return nil
	case errors.Is(err, common.ErrorSyncBusy):
		printlnFn("Sync already in progress.")
		return nil
	case errors.Is(err, common.ErrorRemoteUnavailable):
		printlnFn("Remote store unreachable, will retry on the next cycle.")
		return nil
	case err != nil:
		return err
	}
	printlnFn("Sync cycle finished; state:", a.sync.Status().State.String())
	return nil
}

// CreateWorkspace allocates a fresh shared workspace on the remote store,
// seeds it with the local dataset and switches syncing to it.
func (a *App) CreateWorkspace(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	id, err := a.gw.Create(opCtx, a.data.Snapshot())
	cancel()
	if err != nil {
		printlnFn("Could not create workspace:", err.Error())
		return err
	}

	if err := a.st.SetSetting(ctx, store.KeyWorkspaceID, id); err != nil {
		return err
	}
	a.sync.SetWorkspace(id)

	printlnFn(fmt.Sprintf("Workspace %s created. Share this id with your team.", id))
	return nil
}

// JoinWorkspace switches syncing to an existing workspace id and pulls it.
func (a *App) JoinWorkspace(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	if id == "" {
		printlnFn("Usage: wsjoin <id>")
		return nil
	}

	if err := a.st.SetSetting(ctx, store.KeyWorkspaceID, id); err != nil {
		return err
	}
	a.sync.SetWorkspace(id)
	if err := a.sync.Pull(ctx); errors.Is(err, common.ErrorRemoteUnavailable) {
		printlnFn("Remote store unreachable, will retry on the next cycle.")
	}

	printlnFn("Joined workspace", id+";", "state:", a.sync.Status().State.String())
	return nil
}

// ResetLocal wipes the local database after confirmation and restores the
// built-in default dataset. The session, workspace binding and the other
// local settings are removed with it, so the user has to log in again.
func (a *App) ResetLocal(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Wipe ALL local data and start over? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") {
		printlnFn("Cancelled.")
		return nil
	}

	a.sync.SetWorkspace("")
	if err := a.st.Reset(ctx); err != nil {
		return err
	}
	if err := a.data.ResetToDefaults(ctx); err != nil {
		return err
	}
	a.user = nil

	printlnFn("Local data wiped. Log in again to continue.")
	return nil
}
