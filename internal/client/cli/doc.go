// Package cli is the interactive Recovery Vault client.
//
// It wires configuration, the local preference store, the server client and
// a line-oriented REPL. The REPL composes one draft entry at a time:
//
//	set notes Slept badly, knee swollen
//	set pain 7
//	stage ~/inbox/*.jpg
//	save
//
// and browses what has been committed with history, expand and follow.
// Destructive and private commands (purge, profile) need a PIN unlock first.
//
// The REPL is started with App.Run, which blocks until the user exits.
package cli
