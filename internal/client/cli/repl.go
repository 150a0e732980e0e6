package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/client/services"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording stub.
type execIface interface {
	Set(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Timer(ctx context.Context, args []string) error
	Backlog(ctx context.Context, args []string) error
	Stage(ctx context.Context, args []string) error
	Unstage(ctx context.Context, args []string) error
	Staged(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error

	History(ctx context.Context, args []string) error
	Expand(ctx context.Context, args []string) error
	Follow(ctx context.Context, args []string) error
	Media(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Claim(ctx context.Context, args []string) error
	Claims(ctx context.Context, args []string) error

	Unlock(ctx context.Context, args []string) error
	Lock(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Purge(ctx context.Context, args []string) error

	VaultMode(ctx context.Context, args []string) error
	Name(ctx context.Context, args []string) error

	logError(ctx context.Context, cmd string, err error)
}

const helpText = `Draft:    set <field> <value>, show, reset, timer start|stop|reset, backlog on|off|<YYYY-MM-DD>
Media:    stage <path|glob> [image|video|audio], unstage <n>, staged
Journal:  save, history, expand <day|all>, follow, media <entry-id> [n]
Report:   export, share [path]
Tasks:    claim <id> <status> [title], claims
Vault:    unlock [role], lock, profile [edit], purge, mode [sandbox|forensic], name [new name]
          help, exit`

// runREPL reads commands from reader until EOF or exit. Handler errors are
// shown as a single line and logged by the handler's App.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vault%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "show", "draft":
			cmdErr = a.Show(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx, args)
		case "timer":
			cmdErr = a.Timer(ctx, args)
		case "backlog":
			cmdErr = a.Backlog(ctx, args)
		case "stage":
			cmdErr = a.Stage(ctx, args)
		case "unstage":
			cmdErr = a.Unstage(ctx, args)
		case "staged":
			cmdErr = a.Staged(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)
		case "history", "h":
			cmdErr = a.History(ctx, args)
		case "expand":
			cmdErr = a.Expand(ctx, args)
		case "follow":
			cmdErr = a.Follow(ctx, args)
		case "media":
			cmdErr = a.Media(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "share":
			cmdErr = a.Share(ctx, args)
		case "claim":
			cmdErr = a.Claim(ctx, args)
		case "claims":
			cmdErr = a.Claims(ctx, args)
		case "unlock":
			cmdErr = a.Unlock(ctx, args)
		case "lock":
			cmdErr = a.Lock(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "purge":
			cmdErr = a.Purge(ctx, args)
		case "mode":
			cmdErr = a.VaultMode(ctx, args)
		case "name", "whoami":
			cmdErr = a.Name(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.logError(ctx, cmd, cmdErr)
			if msg := userMessage(cmdErr); msg != "" {
				printlnFn(msg)
			}
		}

		if err != nil {
			return
		}
	}
}

// errUsage carries a usage line back to the user.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

// userMessage turns a command error into one line for the terminal. An
// empty result means stay silent.
func userMessage(err error) string {
	var usage errUsage
	switch {
	case errors.Is(err, services.ErrNothingToSave):
		return ""
	case errors.As(err, &usage):
		return usage.Error()
	case errors.Is(err, common.ErrValidation):
		return "entry not saved: " + err.Error()
	case errors.Is(err, services.ErrCommitFailed):
		return services.ErrCommitFailed.Error()
	case errors.Is(err, draft.ErrBacklogDateMissing):
		return "backlog is on: pick a date with 'backlog YYYY-MM-DD'"
	case errors.Is(err, common.ErrInvalidPin):
		return "wrong PIN"
	case errors.Is(err, common.ErrTooManyAttempts):
		return "too many attempts, try again later"
	case errors.Is(err, common.ErrConfirmationMismatch):
		return "confirmation phrase does not match, nothing was deleted"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, client.ErrUnauthorized):
		return "vault is locked, run 'unlock' first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	return "error: " + err.Error()
}
