package model

// Snapshot is the full dataset exchanged with the remote store in one
// pull or push operation.
//
// A nil collection means "this snapshot carries no update for that
// collection"; decoding keeps absent fields nil so the merge layer can skip
// them instead of clearing local data. Config is a pointer for the same
// reason.
type Snapshot struct {
	Users         []User         `json:"users"`
	Assessments   []Assessment   `json:"records"`
	Meetings      []Meeting      `json:"meetings"`
	Notifications []Notification `json:"notifications"`
	Config        *AppConfig     `json:"config,omitempty"`
	LastUpdated   int64          `json:"lastUpdated"`
}

// Empty reports whether the snapshot carries no data at all, the shape an
// untouched remote workspace returns.
func (s *Snapshot) Empty() bool {
	return s == nil || (s.Users == nil && s.Assessments == nil && s.Meetings == nil &&
		s.Notifications == nil && s.Config == nil && s.LastUpdated == 0)
}
