// Package main provides the entry point for ltrgate-server.
//
// ltrgate-server guards a site behind signed, time-limited access links.
// It issues links on its API, checks the token of every gated page view,
// and serves the admin panel used to generate links by hand.
//
// Usage:
//
//	ltrgate-server -config /etc/ltrgate/config.yaml
//
// Every setting may also come from LTRGATE_* environment variables. The
// unprefixed TOKEN_SECRET, ADMIN_CODE and SITE_URL are honoured as well.
package main
