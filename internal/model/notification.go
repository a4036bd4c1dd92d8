package model

type NotificationType string

const (
	NotificationNOK  NotificationType = "NOK"
	NotificationInfo NotificationType = "INFO"
)

// Notification is generated as a side effect of an assessment entering the
// NOK status. RelatedID points back at the originating assessment so the
// notification can be marked read when that assessment is resolved.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp int64            `json:"timestamp"`
	Read      bool             `json:"isRead"`
	RelatedID string           `json:"relatedId,omitempty"`
}

func (n Notification) SyncID() string   { return n.ID }
func (n Notification) SyncStamp() int64 { return n.Timestamp }
