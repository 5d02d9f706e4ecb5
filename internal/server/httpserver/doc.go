// Package httpserver provides the HTTP server and the request gate.
//
// Every request passes through the gate, which classifies the path and
// either lets it through or redirects:
//
//   - assets, /expired, /admin-panel/login and /api/* pass
//   - the rest of /admin-panel needs the admin cookie, else 307 to login
//   - anything else needs a verified ?token=, else 307 to /expired
//
// Classify is pure and can be tested without HTTP. Gate renders its
// decision as a pass-through or a redirect.
package httpserver
