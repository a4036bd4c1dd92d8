package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/shared"
)

// ListUsers prints the workspace accounts.
func (a *App) ListUsers(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	for _, u := range a.data.Users() {
		status := "active"
		if !u.Active {
			status = "inactive"
		}
		printlnFn(fmt.Sprintf("%-16s %-24s %-20s %s", u.Username, clip(u.Name, 24), u.Role, status))
	}
	return nil
}

// AddUser creates an account. Only roles with access to the users screen may
// do this; the new account starts with a forced password change.
func (a *App) AddUser(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	if !a.auth.Allows(*a.user, "users") {
		printlnFn("Your role does not allow user management.")
		return nil
	}

	username, err := getSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	if username == "" {
		printlnFn("Username is required.")
		return nil
	}
	if _, exists := a.data.FindUserByUsername(username); exists {
		printlnFn("Username already taken.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Role (ADMIN, PREVENTIE_ADVISEUR, PROJECT_MANAGER, PROJECT_ASSISTENT, WERFLEIDER, TECHNIEKER)", os.Stdout)
	if err != nil {
		return err
	}
	department, err := getSimpleText(a.reader, "Department", os.Stdout)
	if err != nil {
		return err
	}
	external, err := getSimpleText(a.reader, "External? [y/N]", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := a.data.SaveUser(ctx, model.User{
		Name:               name,
		Email:              email,
		Username:           username,
		PasswordHash:       string(hash),
		Role:               model.Role(strings.ToUpper(role)),
		Department:         department,
		External:           strings.EqualFold(external, "y"),
		MustChangePassword: true,
		Active:             true,
	})

	printlnFn(fmt.Sprintf("Created user %s (%s).", u.Username, u.Role))
	return nil
}
