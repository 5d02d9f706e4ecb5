// Package connection is the ltrgate-cli HTTP client.
//
// It talks to a running ltrgate-server: issuing links remotely, reading
// health and readiness, and inspecting tokens. Requests carry the issuer
// API key as a bearer token when one is configured. HTTPS servers behind a
// private CA are reached through a TLS config from tlsconf.
package connection
