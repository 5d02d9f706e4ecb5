// Package tlsconf builds TLS configurations for ltrgate.
//
// The server side uses [Reloader], which serves the configured key pair and
// swaps it in place when the files change, so certificates renewed on disk
// are picked up without a restart. The client side uses [ClientConfig] to
// trust an extra CA bundle when the CLI talks to a server behind a private
// certificate authority.
package tlsconf
