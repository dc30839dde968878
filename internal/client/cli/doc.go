// Package cli provides the interactive petcare terminal front-end.
//
// It wires configuration, the local SQLite store, the backend clients, the
// session gate and one records controller per page into a REPL. Pages are
// opened with "open <page>"; every protected page passes the gate first and
// lists its records right after access is allowed.
//
// Key features:
//   - Register / Login / Continue as guest / Logout
//   - Vaccines, vet contacts, diet notes, expenses and photos
//   - Add / List / Delete on the open page, due vaccines marked with "!"
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
