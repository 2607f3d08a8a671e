package models

// SessionState is the read model published to UI collaborators.
//
// IsAuthenticated is derived from User and never set independently.
// IsInitialized transitions false→true exactly once, at the end of the first
// bootstrap attempt, and never reverts.
type SessionState struct {
	User            *User
	IsAuthenticated bool
	IsInitialized   bool
	IsLoading       bool
}

// SessionInfo describes one active device session, as listed by the
// sessions endpoint.
type SessionInfo struct {
	ID         int    `json:"id"`
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type"`
	IPAddress  string `json:"ip_address"`
	Location   string `json:"location,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	LastUsedAt string `json:"last_used_at"`
	ExpiresAt  string `json:"expires_at"`
	IsCurrent  bool   `json:"is_current"`
	IsValid    bool   `json:"is_valid"`
}
