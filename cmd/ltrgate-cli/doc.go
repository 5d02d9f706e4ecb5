// Package main provides the entry point for ltrgate-cli.
//
// ltrgate-cli issues and checks access tokens, asks a running server for
// links, and keeps the per-token usage quota in a local store.
//
// Usage:
//
//	ltrgate-cli token issue --duration 120
//	ltrgate-cli link generate --server https://ltr.example.com -o json
//	ltrgate-cli quota complete --token <token> -n 3
package main
