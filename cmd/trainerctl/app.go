package main

import (
	"alcyxob/training-manager/internal/catalog"
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/service"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage: trainerctl [flags] <users|exercises|sessions|catalog|reset> <command> [flags]")

// app holds the wired services for one invocation.
type app struct {
	store     *repository.Store
	users     service.UserService
	exercises service.ExerciseService
	sessions  service.SessionService
	catalog   *catalog.Synchronizer
	pageSize  int

	out         io.Writer
	in          io.Reader
	assumeYes   bool
	interactive func() bool
}

// bootstrap seeds the demo roster and the catalog on first use. Failures
// are logged; commands still run against whatever is stored.
func (a *app) bootstrap(ctx context.Context) {
	if seeded, err := a.users.SeedDemoUsers(ctx); err != nil {
		log.Printf("WARN: Could not seed demo users: %v", err)
	} else if seeded {
		log.Println("INFO: Seeded demo users")
	}
	if a.catalog == nil {
		return
	}
	if _, err := a.catalog.EnsureCatalog(ctx); err != nil {
		log.Printf("WARN: Could not load the exercise catalog: %v", err)
	}
}

// execute runs one command line, bootstrapping first unless the command
// replaces or erases the stored data itself.
func (a *app) execute(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] != "reset" && args[0] != "catalog" {
		a.bootstrap(ctx)
	}
	return a.dispatch(ctx, args)
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	group, rest := args[0], args[1:]
	switch group {
	case "users", "user":
		return a.runUsers(ctx, rest)
	case "exercises", "exercise":
		return a.runExercises(ctx, rest)
	case "sessions", "session":
		return a.runSessions(ctx, rest)
	case "catalog":
		return a.runCatalog(ctx, rest)
	case "reset":
		return a.runReset(ctx, rest)
	}
	return fmt.Errorf("unknown command %q\n%w", group, errUsage)
}

// confirmFunc answers confirmation prompts for destructive commands.
func (a *app) confirmFunc() (service.ConfirmFunc, error) {
	if a.assumeYes {
		return nil, nil
	}
	if a.interactive == nil || !a.interactive() {
		return nil, errors.New("refusing to change data without a terminal; pass --yes to confirm")
	}
	reader := bufio.NewReader(a.in)
	return func(prompt string) bool {
		fmt.Fprintf(a.out, "%s [y/N] ", prompt)
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "s", "si":
			return true
		}
		return false
	}, nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) pageRequest(number int) service.PageRequest {
	return service.PageRequest{Number: number, Size: a.pageSize}
}

func (a *app) printFooter(total, number, pages int) {
	if pages == 0 {
		fmt.Fprintln(a.out, "No results.")
		return
	}
	fmt.Fprintf(a.out, "Page %d/%d (%d total)\n", number, pages, total)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// parseID reads the single positional id argument of a command.
func parseID(fs *pflag.FlagSet, what string) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%s: expected exactly one %s id", fs.Name(), what)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: invalid %s id %q", fs.Name(), what, fs.Arg(0))
	}
	return id, nil
}

// changedString returns a pointer to the flag value when it was set.
func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetString(name)
	return &v
}

func changedInt64(fs *pflag.FlagSet, name string) *int64 {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetInt64(name)
	return &v
}

// edit drives an update through EditState so the result is reported the
// same way for every entity.
func (a *app) edit(id int64, what string, update func(id int64) error) error {
	var state service.EditState
	state.Begin(id)
	if err := state.Submit(update); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fmt.Errorf("%s %d: %w", what, id, err)
		}
		return err
	}
	fmt.Fprintf(a.out, "Updated %s %d.\n", what, id)
	return nil
}

// remove runs a confirmed delete and reports the outcome.
func (a *app) remove(id int64, what string, del func(confirm service.ConfirmFunc) (bool, error)) error {
	confirm, err := a.confirmFunc()
	if err != nil {
		return err
	}
	deleted, err := del(confirm)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintf(a.out, "Deleted %s %d.\n", what, id)
	} else {
		fmt.Fprintf(a.out, "Nothing deleted.\n")
	}
	return nil
}

func (a *app) runReset(ctx context.Context, args []string) error {
	fs := newFlagSet("reset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	confirm, err := a.confirmFunc()
	if err != nil {
		return err
	}
	if confirm != nil && !confirm("Erase all stored data?") {
		fmt.Fprintln(a.out, "Nothing deleted.")
		return nil
	}
	a.store.Clear(ctx)
	fmt.Fprintln(a.out, "All data erased.")
	return nil
}
