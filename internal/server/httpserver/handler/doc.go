// Package handler provides the HTTP handlers behind the request gate.
//
// Files are grouped by surface:
//
//   - issue.go: link generation, generic and pinned-origin
//   - inspect.go: token inspection for client-side expiry checks
//   - admin.go: admin login, logout and link-generation page
//   - pages.go: expiry page, placeholder page and static files
//   - health.go: liveness, readiness and metrics
//
// The compatibility endpoints (link generation, inspection) answer with
// the flat JSON shapes existing clients parse. Everything else uses the
// Response envelope.
package handler
