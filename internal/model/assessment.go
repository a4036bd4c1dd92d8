package model

// Answer is the outcome of a single last-minute risk analysis question.
// An empty Answer means the question has not been answered yet.
type Answer string

const (
	AnswerOK            Answer = "OK"
	AnswerNOK           Answer = "NOK"
	AnswerNotApplicable Answer = "NVT"
)

// Status is derived from an assessment's questions and attendees at mutation
// time. The merge layer treats it as an opaque field.
type Status string

const (
	StatusOK               Status = "OK"
	StatusNOK              Status = "NOK"
	StatusResolved         Status = "RESOLVED"
	StatusPendingSignature Status = "PENDING_SIGNATURE"
)

// Question is one checklist item inside an assessment. Reason is the optional
// free-text explanation for a NOK answer.
type Question struct {
	ID     string `json:"id"`
	Text   string `json:"questionText"`
	Answer Answer `json:"answer"`
	Reason string `json:"reason,omitempty"`
}

// Attendee is a person present at an assessment or kick-off meeting.
// UserID is set when the attendee maps to a known account; external visitors
// only carry a name. Signature holds the captured signature image data.
type Attendee struct {
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Signed    bool   `json:"isSigned"`
}

// Assessment is a last-minute risk analysis instance. DeletedAt is a
// tombstone marker (epoch milliseconds, zero when live) so a local deletion
// survives merges instead of being resurrected by a stale remote copy.
type Assessment struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	Timestamp      int64      `json:"timestamp"`
	UserID         string     `json:"userId"`
	UserName       string     `json:"userName"`
	SupervisorID   string     `json:"supervisorId,omitempty"`
	Department     string     `json:"department"`
	Location       string     `json:"location"`
	Status         Status     `json:"status"`
	Questions      []Question `json:"questions"`
	Remarks        string     `json:"remarks,omitempty"`
	TreatmentNotes string     `json:"treatmentNotes,omitempty"`
	Attendees      []Attendee `json:"attendees"`
	ResolvedByID   string     `json:"resolvedById,omitempty"`
	ResolvedByName string     `json:"resolvedByName,omitempty"`
	AssignedToID   string     `json:"assignedToId,omitempty"`
	AssignedToName string     `json:"assignedToName,omitempty"`
	DeletedAt      int64      `json:"deletedAt,omitempty"`
}

func (a Assessment) SyncID() string   { return a.ID }
func (a Assessment) SyncStamp() int64 { return a.Timestamp }

// Deleted reports whether the assessment is tombstoned.
func (a Assessment) Deleted() bool { return a.DeletedAt > 0 }

// HasNOK reports whether any question is answered NOK.
func (a Assessment) HasNOK() bool {
	for _, q := range a.Questions {
		if q.Answer == AnswerNOK {
			return true
		}
	}
	return false
}

// AllSigned reports whether every attendee has signed. An assessment without
// attendees counts as fully signed.
func (a Assessment) AllSigned() bool {
	for _, at := range a.Attendees {
		if !at.Signed {
			return false
		}
	}
	return true
}

// DeriveStatus recomputes the status from questions and attendees.
// Precedence: an unsigned attendee always yields PENDING_SIGNATURE, then a
// recorded resolution yields RESOLVED, then any NOK answer yields NOK.
func (a Assessment) DeriveStatus() Status {
	if !a.AllSigned() {
		return StatusPendingSignature
	}
	if a.ResolvedByID != "" {
		return StatusResolved
	}
	if a.HasNOK() {
		return StatusNOK
	}
	return StatusOK
}
