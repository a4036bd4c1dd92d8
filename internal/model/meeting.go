package model

// Meeting is a kick-off briefing held before work starts on a site.
// It shares the attendee shape with assessments and carries the discussed
// topics and the risks identified during the briefing.
type Meeting struct {
	ID              string     `json:"id"`
	Project         string     `json:"project"`
	Date            string     `json:"date"`
	Timestamp       int64      `json:"timestamp"`
	UserID          string     `json:"userId"`
	Department      string     `json:"department"`
	Location        string     `json:"location"`
	Attendees       []Attendee `json:"attendees"`
	Topics          []string   `json:"topics"`
	RisksIdentified []string   `json:"risksIdentified"`
	DeletedAt       int64      `json:"deletedAt,omitempty"`
}

func (m Meeting) SyncID() string   { return m.ID }
func (m Meeting) SyncStamp() int64 { return m.Timestamp }

// Deleted reports whether the meeting is tombstoned.
func (m Meeting) Deleted() bool { return m.DeletedAt > 0 }
