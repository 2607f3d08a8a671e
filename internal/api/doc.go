// Package api implements the CrewDesk REST client. All outbound calls flow
// through a single RoundTripper chokepoint that attaches the cached access
// credential, sends cookies, and classifies 401 responses; repair of an
// expired credential is delegated to a Refresher (the session coordinator)
// and the failed call is replayed at most once.
package api
