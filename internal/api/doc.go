// Package api is the authenticated HTTP client for the remote invoice
// backend. Every request attaches the session's bearer token; an expired
// access token is recovered transparently by a single-flight refresh shared
// by all concurrently failing requests. Refresh failure is terminal for the
// session: tokens are cleared and the configured auth-failure hook fires
// exactly once.
package api
