package model

// Role classifies a user account. Values mirror the role labels used by the
// workspace configuration's permission map.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RolePreventionAdvisor Role = "PREVENTIE_ADVISEUR"
	RoleProjectManager    Role = "PROJECT_MANAGER"
	RoleProjectAssistant  Role = "PROJECT_ASSISTENT"
	RoleSiteSupervisor    Role = "WERFLEIDER"
	RoleTechnician        Role = "TECHNIEKER"
)

// User is an account record. PasswordHash holds a bcrypt hash; the plaintext
// password never enters the dataset.
type User struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Username           string `json:"username"`
	PasswordHash       string `json:"passwordHash"`
	Role               Role   `json:"role"`
	Department         string `json:"department"`
	External           bool   `json:"isExternal"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
	Active             bool   `json:"isActive"`
	Timestamp          int64  `json:"timestamp"`
}

func (u User) SyncID() string   { return u.ID }
func (u User) SyncStamp() int64 { return u.Timestamp }
