package main

import (
	"alcyxob/training-manager/internal/service"
	"context"
	"fmt"
)

func (a *app) runUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("users: expected list, add, edit, rm or seed")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		fs := newFlagSet("users list")
		query := fs.StringP("query", "q", "", "match name or role")
		page := fs.IntP("page", "p", 1, "page number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result := a.users.ListUsers(ctx, service.UserFilter{Query: *query}, a.pageRequest(*page))
		tw := a.table()
		fmt.Fprintln(tw, "ID\tNAME\tROLE")
		for _, u := range result.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Role)
		}
		tw.Flush()
		a.printFooter(result.Total, result.Number, result.TotalPages())
		return nil

	case "add":
		fs := newFlagSet("users add")
		name := fs.String("name", "", "display name")
		role := fs.String("role", "client", "admin, trainer or client")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		user, err := a.users.CreateUser(ctx, service.NewUserInput{Name: *name, Role: *role})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created user %d: %s\n", user.ID, user.Describe())
		return nil

	case "edit":
		fs := newFlagSet("users edit")
		fs.String("name", "", "new display name")
		fs.String("role", "", "new role")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "user")
		if err != nil {
			return err
		}
		patch := service.UserPatch{Name: changedString(fs, "name"), Role: changedString(fs, "role")}
		return a.edit(id, "user", func(id int64) error {
			_, err := a.users.UpdateUser(ctx, id, patch)
			return err
		})

	case "rm", "delete":
		fs := newFlagSet("users rm")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "user")
		if err != nil {
			return err
		}
		return a.remove(id, "user", func(confirm service.ConfirmFunc) (bool, error) {
			return a.users.DeleteUser(ctx, id, confirm)
		})

	case "seed":
		seeded, err := a.users.SeedDemoUsers(ctx)
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintln(a.out, "Seeded demo users.")
		} else {
			fmt.Fprintln(a.out, "Users already exist; nothing seeded.")
		}
		return nil
	}
	return fmt.Errorf("users: unknown command %q", cmd)
}
