package common

const (
	// RefreshCookieName is the HTTP-only cookie carrying the refresh
	// credential. The client never reads its value.
	RefreshCookieName = "refresh_token"

	// SignalCookieName is the non-HTTP-only sibling cookie set alongside
	// the refresh cookie. Its presence (not its value) tells the client a
	// refresh attempt is worth making.
	SignalCookieName = "device_id"

	// AccessTokenSlot and DeviceIDSlot are the durable storage keys for
	// the cached access token and the persisted device identifier.
	AccessTokenSlot = "access_token"
	DeviceIDSlot    = "device_id"

	// CookieSlot holds the serialized cookie store, so the refresh cookie
	// survives a process restart the way it survives a page reload.
	CookieSlot = "cookies"
)
