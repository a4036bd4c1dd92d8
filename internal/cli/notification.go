package cli

import (
	"context"
	"fmt"
	"time"
)

// ListNotifications prints the notification feed, newest first.
func (a *App) ListNotifications(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	items := a.data.Notifications()
	if len(items) == 0 {
		printlnFn("No notifications.")
		return nil
	}
	for _, n := range items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		when := time.UnixMilli(n.Timestamp).Format("2006-01-02 15:04")
		printlnFn(fmt.Sprintf("%s %s  [%s] %s: %s", mark, when, n.Type, n.Title, n.Message))
	}
	return nil
}

// MarkNotificationsRead marks the whole feed as read.
func (a *App) MarkNotificationsRead(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.data.MarkNotificationsRead(ctx)
	printlnFn("All notifications marked read.")
	return nil
}
