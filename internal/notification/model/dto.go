package model

// ListFilter narrows a user's durable notification feed.
type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

// ListResponse is the durable notification feed with its unread count.
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

// UnreadCountResponse carries the unread durable notification count.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// DashboardResponse lists a user's live dashboard prompts.
type DashboardResponse struct {
	Notifications []DashboardNotification `json:"notifications"`
}
