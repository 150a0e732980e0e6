// Package client talks to the vault server and bootstraps the CLI's local
// SQLite database.
//
// GRPCClient wraps the JournalService stub: it applies a per-call timeout,
// attaches the gate token to gated calls and maps gRPC status codes back to
// the sentinel errors in internal/common so callers can use errors.Is.
package client
