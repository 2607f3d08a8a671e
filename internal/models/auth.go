package models

// Credentials is the payload for the login endpoint. DeviceFingerprint is a
// coarse environment description the server folds into its device
// fingerprint; RememberMe asks for a long-lived refresh cookie.
type Credentials struct {
	Username          string            `json:"username"`
	Password          string            `json:"password"`
	RememberMe        bool              `json:"remember_me"`
	DeviceFingerprint DeviceFingerprint `json:"device_fingerprint"`
}

// DeviceFingerprint carries the coarse, non-secret environment traits sent
// with a login. The DeviceID is the client-persisted identifier; the rest is
// advisory and used server-side for session display only.
type DeviceFingerprint struct {
	DeviceID string `json:"device_id,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	OS       string `json:"os,omitempty"`
	Arch     string `json:"arch,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Registration is the payload for the register endpoint.
type Registration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID *int   `json:"department_id,omitempty"`
}

// LoginResult is the login endpoint response. The refresh credential itself
// never appears here: it arrives as an HTTP-only cookie.
type LoginResult struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        *User        `json:"user"`
	Device      *DeviceEcho  `json:"device,omitempty"`
	Session     *SessionEcho `json:"session,omitempty"`
}

// DeviceEcho is the server's view of the device a login bound to.
type DeviceEcho struct {
	ID string `json:"id"`
}

// SessionEcho summarizes the refresh session created by a login.
type SessionEcho struct {
	ExpiresAt  string `json:"expires_at"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshResult is the refresh endpoint response: a fresh access token and
// the current user record.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
