// Package session keeps a user transparently logged in: it caches the
// short-lived access credential, repairs it exactly once when the server
// rejects it (single-flight refresh with FIFO queuing of concurrent
// callers), restores a session silently at startup from the long-lived
// refresh cookie, and publishes the resulting session state to the rest of
// the application.
package session
