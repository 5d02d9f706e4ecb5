// Package service provides the token services of the access gate.
//
// This package contains:
//
//   - Issuer: mints signed, time-limited access tokens and shareable links
//   - Verifier: checks a token against the shared secret and the clock
//   - AdminService: admin static-code checks and the optional login limiter
//
// Issuer and Verifier hold no mutable state beyond their configuration and
// are safe for concurrent use. AdminService swaps its code atomically on
// configuration reload.
package service
