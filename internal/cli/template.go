package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/pkg/template"
)

// templateCommand creates the template management command.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "tpl"},
		Short:   "Manage saved templates",
		Long: `Manage saved templates.

Templates live in the configured store: a directory of JSON files by default,
or SQLite, Redis or MongoDB (see 'photostrip config show').`,
	}

	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templateShowCommand())
	cmd.AddCommand(c.templateSaveCommand())
	cmd.AddCommand(c.templateDeleteCommand())

	return cmd
}

// withStore opens the template store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(template.Store) error) error {
	store, err := c.newTemplateStore(ctx)
	if err != nil {
		return fmt.Errorf("open template store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved templates, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store template.Store) error {
				summaries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					printInfo("No saved templates")
					printNextStep("Create one", "photostrip layout frame.png -n 4 --save")
					return nil
				}
				now := time.Now()
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{s.ID, s.Name, strconv.Itoa(s.Slots), formatRelativeTime(s.CreatedAt, now)})
				}
				printTable([]string{"ID", "NAME", "SLOTS", "CREATED"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) templateShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a template as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store template.Store) error {
				rec, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeRecord(output, rec)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) templateSaveCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <file.json>",
		Short: "Save a template file to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				rec.Name = name
			}
			// a file exported from one store must not overwrite another's entry
			rec.ID = ""
			rec, err = template.Prepare(rec, time.Now())
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store template.Store) error {
				id, err := store.Save(cmd.Context(), rec)
				if err != nil {
					return err
				}
				printSuccess("Saved template %s", StyleHighlight.Render(rec.Name))
				printKeyValue("ID", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "template name (default: name in file)")
	return cmd
}

func (c *CLI) templateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved templates",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store template.Store) error {
				for _, id := range args {
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
					printSuccess("Deleted %s", id)
				}
				return nil
			})
		},
	}
}
