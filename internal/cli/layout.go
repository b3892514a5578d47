package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/pkg/strip"
)

// layoutCommand creates the layout command for fitting slots to a template image.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		count  int
		name   string
		output string
		root   string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <template-image>",
		Short: "Fit photo slots to a template image",
		Long: `Fit photo slots to a template image.

The image becomes the strip background and n slots are arranged in a column
sized to the image's aspect ratio. The result is a template record that
'render' and 'edit' accept, written as JSON or saved to the template store.`,
		Example: `  photostrip layout frame.png -n 4 -o party.json
  photostrip layout frame.png -n 3 --name wedding --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], count, name, output, root, save)
		},
	}

	cmd.Flags().IntVarP(&count, "slots", "n", 4, "number of photo slots")
	cmd.Flags().StringVar(&name, "name", "", "template name (default: image file name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&root, "root", "", "directory image paths resolve against")
	cmd.Flags().BoolVar(&save, "save", false, "save to the template store instead of writing JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, image string, count int, name, output, root string, save bool) error {
	s, err := c.newSession(ctx, sessionOpts{root: root, templates: save})
	if err != nil {
		return err
	}
	defer s.Close()

	ref, err := localRef(s.root, image)
	if err != nil {
		return err
	}
	if err := s.ed.SetBackground(strip.Background{Mode: strip.BackgroundTemplate, Value: ref}); err != nil {
		return err
	}
	if err := s.ed.ConfirmLayout(ctx, count); err != nil {
		return err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
	}

	if save {
		id, err := s.ed.SaveTemplate(ctx, name)
		if err != nil {
			return err
		}
		printSuccess("Saved template %s", StyleHighlight.Render(name))
		printKeyValue("ID", id)
		printNextStep("Render it", "photostrip render "+id+" photo1.jpg ...")
		return nil
	}

	if err := writeRecord(output, s.ed.Record(name)); err != nil {
		return err
	}
	if output != "" && output != "-" {
		printSuccess("Fitted %d slots", len(s.ed.Slots()))
		printFile(output)
		printNextStep("Render it", "photostrip render "+output+" photo1.jpg ...")
	}
	return nil
}
