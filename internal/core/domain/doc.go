// Package domain defines the core domain model for ltrgate.
//
// Domain types are pure values without IO dependencies or framework
// coupling. This package contains:
//
//   - AccessToken: the two-field signed token and its wire codec
//   - Admin credential constants shared by the gate and the login flow
//   - Errors: coded domain errors
package domain
