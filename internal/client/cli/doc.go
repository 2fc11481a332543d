// Package cli provides the interactive DayKeeper command-line client.
//
// It wires configuration, device-local storage, the HTTP API client, the
// identity gate and the screen machine into an interactive REPL. Typical
// flow: resume a persisted session, then execute user commands against
// whichever screen is active.
//
// Key features:
//   - Login / SSO login / Signup / Password reset / Logout
//   - Guest mode with device-local storage
//   - List entries with live D-Day countdowns
//   - Add / delete entries
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
