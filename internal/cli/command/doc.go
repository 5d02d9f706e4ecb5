// Package command defines the ltrgate-cli commands on urfave/cli/v2.
//
// Commands fall into three groups. Local ones need only the token secret
// (token issue, token verify, secret generate, admin hash-code). Remote ones
// talk to a running server (link generate, server health, token inspect
// --remote). The quota commands keep the per-token usage counter in a
// client-local Badger store, the way a browser keeps it in local storage.
package command
