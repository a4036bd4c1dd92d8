package model

// AppConfig is the workspace-wide configuration: branding, the question and
// topic templates used when creating new assessments and meetings, and the
// role-to-screen permission map. It is synchronized as a single object with
// whole-object replace semantics (the snapshot with the newer lastUpdated
// wins), not merged per field.
type AppConfig struct {
	AppName       string            `json:"appName"`
	LogoURL       string            `json:"logoUrl"`
	Questions     []string          `json:"lmraQuestions"`
	KickoffTopics []string          `json:"kickoffTopics"`
	Departments   []string          `json:"departments"`
	Permissions   map[Role][]string `json:"permissions"`
}

// Allows reports whether the given role may access the named screen.
// An unknown role has no permissions.
func (c AppConfig) Allows(role Role, screen string) bool {
	for _, s := range c.Permissions[role] {
		if s == screen {
			return true
		}
	}
	return false
}
