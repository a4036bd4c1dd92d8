package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultConfig returns the built-in workspace configuration used on first
// run and as the fallback when the persisted configuration is unreadable.
func DefaultConfig() AppConfig {
	return AppConfig{
		AppName: "VCA BEL",
		LogoURL: "",
		Questions: []string{
			"Weet ik precies wat ik moet doen?",
			"Zijn de risico's van de werkplek bekend?",
			"Draag ik de juiste PBM's?",
			"Is het gereedschap in goede staat?",
			"Zijn vluchtwegen en nooduitgangen vrij?",
			"Is er voldoende verlichting?",
			"Ben ik fit en gezond om de taak uit te voeren?",
		},
		KickoffTopics: []string{
			"LMRA procedures",
			"Werfreglement",
			"Noodplan",
			"Specifieke risico's",
			"PBM inspectie",
		},
		Departments: []string{"TELECOM", "LAAGSPANNING", "MIDDENSPANNING", "ALGEMEEN"},
		Permissions: map[Role][]string{
			RoleAdmin:             {"dashboard", "lmra", "nok", "kickoff", "reports", "library", "profile", "users", "settings"},
			RolePreventionAdvisor: {"dashboard", "lmra", "nok", "kickoff", "reports", "library", "profile", "users", "settings"},
			RoleSiteSupervisor:    {"dashboard", "lmra", "nok", "kickoff", "reports", "library", "profile", "users", "settings"},
			RoleProjectManager:    {"dashboard", "lmra", "kickoff", "reports", "profile"},
			RoleProjectAssistant:  {"dashboard", "lmra", "kickoff", "profile"},
			RoleTechnician:        {"dashboard", "lmra", "kickoff", "library", "profile"},
		},
	}
}

// SeedUsers returns the initial user list for a fresh workspace: a single
// administrator account with a forced password change on first login.
func SeedUsers() []User {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on an invalid cost, which is constant here.
		panic(err)
	}
	return []User{{
		ID:                 uuid.NewString(),
		Name:               "Administrator",
		Email:              "admin@example.com",
		Username:           "admin",
		PasswordHash:       string(hash),
		Role:               RoleAdmin,
		Department:         "ALGEMEEN",
		MustChangePassword: true,
		Active:             true,
		Timestamp:          NowMillis(),
	}}
}

// SeedSnapshot returns the default dataset for a brand new or corrupted
// local store.
func SeedSnapshot() *Snapshot {
	cfg := DefaultConfig()
	return &Snapshot{
		Users:         SeedUsers(),
		Assessments:   []Assessment{},
		Meetings:      []Meeting{},
		Notifications: []Notification{},
		Config:        &cfg,
		LastUpdated:   NowMillis(),
	}
}
