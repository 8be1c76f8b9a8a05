package main

import (
	"alcyxob/training-manager/internal/service"
	"context"
	"fmt"
	"strings"
)

func (a *app) runExercises(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("exercises: expected list, show, add, edit, rm or facets")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		fs := newFlagSet("exercises list")
		name := fs.StringP("name", "n", "", "match part of the name")
		bodyPart := fs.String("body-part", "", "exact body part")
		equipment := fs.String("equipment", "", "exact equipment")
		page := fs.IntP("page", "p", 1, "page number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		filter := service.ExerciseFilter{Name: *name, BodyPart: *bodyPart, Equipment: *equipment}
		result := a.exercises.ListExercises(ctx, filter, a.pageRequest(*page))
		tw := a.table()
		fmt.Fprintln(tw, "ID\tNAME\tBODY PART\tEQUIPMENT")
		for _, e := range result.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.BodyPart, e.Equipment)
		}
		tw.Flush()
		a.printFooter(result.Total, result.Number, result.TotalPages())
		return nil

	case "show":
		fs := newFlagSet("exercises show")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "exercise")
		if err != nil {
			return err
		}
		exercise, err := a.exercises.GetExercise(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, exercise.Info())
		return nil

	case "add":
		fs := newFlagSet("exercises add")
		name := fs.String("name", "", "exercise name")
		description := fs.String("description", "", "short description")
		bodyPart := fs.String("body-part", "", "body part worked")
		equipment := fs.String("equipment", "", "equipment needed")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		exercise, err := a.exercises.CreateExercise(ctx, service.NewExerciseInput{
			Name: *name, Description: *description, BodyPart: *bodyPart, Equipment: *equipment,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created exercise %d: %s\n", exercise.ID, exercise.Info())
		return nil

	case "edit":
		fs := newFlagSet("exercises edit")
		fs.String("name", "", "new name")
		fs.String("description", "", "new description")
		fs.String("body-part", "", "new body part")
		fs.String("equipment", "", "new equipment")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "exercise")
		if err != nil {
			return err
		}
		patch := service.ExercisePatch{
			Name:        changedString(fs, "name"),
			Description: changedString(fs, "description"),
			BodyPart:    changedString(fs, "body-part"),
			Equipment:   changedString(fs, "equipment"),
		}
		return a.edit(id, "exercise", func(id int64) error {
			_, err := a.exercises.UpdateExercise(ctx, id, patch)
			return err
		})

	case "rm", "delete":
		fs := newFlagSet("exercises rm")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := parseID(fs, "exercise")
		if err != nil {
			return err
		}
		return a.remove(id, "exercise", func(confirm service.ConfirmFunc) (bool, error) {
			return a.exercises.DeleteExercise(ctx, id, confirm)
		})

	case "facets":
		facets := a.exercises.Facets(ctx)
		fmt.Fprintf(a.out, "Body parts: %s\n", strings.Join(facets.BodyParts, ", "))
		fmt.Fprintf(a.out, "Equipment: %s\n", strings.Join(facets.Equipment, ", "))
		return nil
	}
	return fmt.Errorf("exercises: unknown command %q", cmd)
}

func (a *app) runCatalog(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "sync" {
		return fmt.Errorf("catalog: expected sync")
	}
	fs := newFlagSet("catalog sync")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	confirm, err := a.confirmFunc()
	if err != nil {
		return err
	}
	if confirm != nil && !confirm("Replace the exercise catalog with the remote list? Local changes will be lost.") {
		fmt.Fprintln(a.out, "Catalog unchanged.")
		return nil
	}
	exercises, err := a.catalog.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Catalog synchronized (%d exercises).\n", len(exercises))
	return nil
}
