package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vcabel/safework/internal/common"
	"github.com/vcabel/safework/internal/services"
	"github.com/vcabel/safework/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username and password and authenticates against the
// synchronized user list. Works fully offline. When the account carries the
// must-change flag the user is walked through a password change immediately.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	user, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		if services.IsAuthError(err) {
			printlnFn("Login failed:", err.Error())
			return nil
		}
		return err
	}

	a.user = &user
	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))

	if user.MustChangePassword {
		printlnFn("You must change your password before continuing.")
		return a.ChangePassword(ctx)
	}
	return nil
}

// Logout discards the stored session and the in-memory user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	printlnFn("Logged out.")
	return nil
}

// ChangePassword prompts for the current and a new password and applies the
// change to the logged-in account.
func (a *App) ChangePassword(ctx context.Context) error {
	if a.user == nil {
		printlnFn("Log in first.")
		return nil
	}

	printlnFn("Current password")
	current, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(current)

	printlnFn("New password")
	next, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(next)

	if err := a.auth.ChangePassword(ctx, a.user.ID, string(current), string(next)); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Current password is incorrect.")
			return nil
		}
		return err
	}

	if user, ok := a.data.FindUserByID(a.user.ID); ok {
		a.user = &user
	}
	printlnFn("Password changed.")
	return nil
}
