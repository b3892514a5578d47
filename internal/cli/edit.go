package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/pkg/pipeline"
)

// editCommand creates the edit command for the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		name    string
		output  string
		root    string
		formats string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "edit [template] [photo...]",
		Short: "Edit a strip interactively in the terminal",
		Long: `Edit a strip interactively in the terminal.

Drag slots and overlays with the mouse (right button pans), resize the
selected slot by its corners, and nudge with the arrow keys (shift for
larger steps). Lock the layout with 'l'; clicking a slot then asks for a
replacement photo. 's' saves to the template store and 'e' exports next to
the working directory.

Without a template the editor starts with an empty flat strip.`,
		Example: `  photostrip edit party.json a.jpg b.jpg c.jpg
  photostrip edit 01J9Z3... -o party.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := parseFormats(formats)
			if err := pipeline.ValidateFormats(fs); err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), args, name, output, root, fs, noCache)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name used when saving (default: template name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the template JSON here on exit")
	cmd.Flags().StringVar(&root, "root", "", "directory photo paths resolve against")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "export format(s) for 'e': png (default), jpeg, pdf")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, args []string, name, output, root string, formats []string, noCache bool) error {
	s, err := c.newSession(ctx, sessionOpts{root: root, noCache: noCache, templates: true})
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.load(ctx, args[0]); err != nil {
			return err
		}
		if name == "" {
			name = templateName(args[0])
		}
		if _, err := s.addPhotos(args[1:]); err != nil {
			return err
		}
	}
	if name == "" {
		name = "untitled"
	}

	export := pipeline.Options{Formats: formats}
	c.exportDefaults(&export)

	model := NewEditModel(ctx, s.ed, name, s.root, export)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if output != "" {
		if err := writeRecord(output, s.ed.Record(name)); err != nil {
			return err
		}
		printSuccess("Wrote template")
		printFile(output)
	}
	return nil
}

// templateName derives a display name from a template argument.
func templateName(arg string) string {
	if isFile(arg) {
		return strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	}
	return arg
}
