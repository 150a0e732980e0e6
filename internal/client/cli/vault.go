package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/recoveryvault/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/gosuri/uitable"
)

var errLocked = fmt.Errorf("%w: vault is locked", common.ErrorUnauthorized)

// Unlock checks a role PIN with the server. The role defaults to the
// current author when that is a named role.
func (a *App) Unlock(ctx context.Context, args []string) error {
	a.mu.Lock()
	role := a.draft.Author
	a.mu.Unlock()

	if len(args) > 0 {
		role = strings.Join(args, " ")
	} else if !slices.Contains(journal.Roles, role) {
		return errUsage("unlock <" + strings.Join(journal.Roles, "|") + ">")
	}

	pin, err := getPIN(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	until, err := a.api.Unlock(ctx, role, string(pin))
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("unlocked as %s until %s", role, until.Local().Format("15:04")))
	return nil
}

func (a *App) Lock(ctx context.Context, args []string) error {
	a.api.Lock()
	printlnFn("locked")
	return nil
}

// Profile shows the case profile; "profile edit" walks through its fields.
func (a *App) Profile(ctx context.Context, args []string) error {
	if !a.api.Unlocked() {
		return errLocked
	}

	p, err := a.api.GetProfile(ctx)
	if err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "edit" {
		fields := []struct {
			prompt string
			v      *string
		}{
			{"Patient name", &p.PatientName},
			{"Case number", &p.CaseNumber},
			{"Injury date (YYYY-MM-DD)", &p.InjuryDate},
			{"Attorney", &p.Attorney},
			{"Notes", &p.Notes},
		}
		for _, f := range fields {
			v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.prompt, *f.v), a.out)
			if err != nil {
				return err
			}
			if v != "" {
				*f.v = v
			}
		}
		if err := a.api.SaveProfile(ctx, *p); err != nil {
			return err
		}
		printlnFn("profile saved")
	}

	tbl := uitable.New()
	tbl.AddRow("patient", p.PatientName)
	tbl.AddRow("case", p.CaseNumber)
	tbl.AddRow("injury date", p.InjuryDate)
	tbl.AddRow("attorney", p.Attorney)
	tbl.AddRow("notes", p.Notes)
	_, _ = fmt.Fprintln(a.out, tbl)
	return nil
}

// Purge deletes every journal entry after a fresh PIN and the typed
// confirmation phrase.
func (a *App) Purge(ctx context.Context, args []string) error {
	if !a.api.Unlocked() {
		return errLocked
	}

	printlnFn("This deletes every journal entry in every mode. It cannot be undone.")
	pin, err := getPIN(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	phrase, err := getSimpleText(a.reader, fmt.Sprintf("Type %q to confirm", common.ConfirmationPhrase), a.out)
	if err != nil {
		return err
	}

	n, err := a.api.Purge(ctx, string(pin), phrase)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.entries = nil
	a.mu.Unlock()
	a.presenter.SetEntries(nil)

	printlnFn(fmt.Sprintf("deleted %d entries", n))
	return nil
}

// VaultMode shows or switches the partition used for saving and reading.
func (a *App) VaultMode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("mode:", a.mode())
		return nil
	}

	m, ok := journal.ParseVaultMode(args[0])
	if !ok {
		return errUsage("mode sandbox|forensic")
	}

	a.mu.Lock()
	d, err := a.draft.SetField("mode", string(m))
	if err == nil {
		a.draft = d
		a.entries = nil
	}
	a.mu.Unlock()
	if err != nil {
		return err
	}
	a.presenter.SetEntries(nil)

	if err := a.prefs.Set(ctx, preferences.KeyVaultMode, string(m)); err != nil {
		return err
	}
	printlnFn("mode:", m)
	return nil
}

// Name shows or changes who is writing. The choice is remembered.
func (a *App) Name(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.mu.Lock()
		author := a.draft.Author
		a.mu.Unlock()
		printlnFn("you are", author, "("+strings.Join(journal.Roles, ", ")+" or any name)")
		return nil
	}

	name := strings.Join(args, " ")
	a.mu.Lock()
	d, err := a.draft.SetField("author", name)
	if err == nil {
		a.draft = d
	}
	a.mu.Unlock()
	if err != nil {
		return err
	}

	return a.prefs.Set(ctx, preferences.KeyDisplayName, name)
}
