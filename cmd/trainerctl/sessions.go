package main

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/service"
	"context"
	"fmt"
	"strings"
)

func (a *app) runSessions(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sessions: expected list, show, add, edit, rm, add-exercise or rm-exercise")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		fs := newFlagSet("sessions list")
		title := fs.StringP("title", "t", "", "match part of the title")
		client := fs.Int64("client", 0, "only sessions for this client id")
		page := fs.IntP("page", "p", 1, "page number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result := a.sessions.ListSessionViews(ctx, service.SessionFilter{Title: *title, ClientID: *client}, a.pageRequest(*page))
		tw := a.table()
		fmt.Fprintln(tw, "ID\tTITLE\tCLIENT\tEXERCISES")
		for _, v := range result.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.Session.ID, v.Session.Title, v.ClientName, joinLines(v.Lines))
		}
		tw.Flush()
		a.printFooter(result.Total, result.Number, result.TotalPages())
		return nil

	case "show":
		fs := newFlagSet("sessions show")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "session")
		if err != nil {
			return err
		}
		view, err := a.sessions.ViewSession(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (client: %s)\n", view.Session.Title, view.ClientName)
		for _, line := range view.Lines {
			fmt.Fprintf(a.out, "  %s\n", line)
		}
		return nil

	case "add":
		fs := newFlagSet("sessions add")
		title := fs.String("title", "", "session title")
		client := fs.Int64("client", 0, "client user id")
		trainer := fs.Int64("trainer", 0, "trainer user id (optional)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		session, err := a.sessions.CreateSession(ctx, service.NewSessionInput{Title: *title, ClientID: *client, TrainerID: *trainer})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created session %d: %s\n", session.ID, session.Title)
		return nil

	case "edit":
		fs := newFlagSet("sessions edit")
		fs.String("title", "", "new title")
		fs.Int64("client", 0, "new client user id")
		fs.Int64("trainer", 0, "new trainer user id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "session")
		if err != nil {
			return err
		}
		patch := service.SessionPatch{
			Title:     changedString(fs, "title"),
			ClientID:  changedInt64(fs, "client"),
			TrainerID: changedInt64(fs, "trainer"),
		}
		return a.edit(id, "session", func(id int64) error {
			_, err := a.sessions.UpdateSession(ctx, id, patch)
			return err
		})

	case "rm", "delete":
		fs := newFlagSet("sessions rm")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "session")
		if err != nil {
			return err
		}
		return a.remove(id, "session", func(confirm service.ConfirmFunc) (bool, error) {
			return a.sessions.DeleteSession(ctx, id, confirm)
		})

	case "add-exercise":
		fs := newFlagSet("sessions add-exercise")
		exercise := fs.Int64("exercise", 0, "exercise id")
		sets := fs.Int("sets", 0, "number of sets")
		reps := fs.Int("reps", 0, "repetitions per set")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "session")
		if err != nil {
			return err
		}
		line := domain.SessionExercise{ExerciseID: *exercise, Sets: *sets, Reps: *reps}
		if _, err := a.sessions.AddExercise(ctx, id, line); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Session %d: exercise %d set to %dx%d.\n", id, line.ExerciseID, line.Sets, line.Reps)
		return nil

	case "rm-exercise":
		fs := newFlagSet("sessions rm-exercise")
		exercise := fs.Int64("exercise", 0, "exercise id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "session")
		if err != nil {
			return err
		}
		if _, err := a.sessions.RemoveExercise(ctx, id, *exercise); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Session %d: exercise %d removed.\n", id, *exercise)
		return nil
	}
	return fmt.Errorf("sessions: unknown command %q", cmd)
}

func joinLines(lines []service.ExerciseLine) string {
	if len(lines) == 0 {
		return "-"
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}
