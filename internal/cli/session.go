package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/photostrip/pkg/editor"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/render/sink"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// sessionOpts selects what an editing session is wired to.
type sessionOpts struct {
	root      string
	noCache   bool
	templates bool // open the configured template store
	gallery   bool // open the configured gallery
}

// session is an editor plus the resources it was built from.
type session struct {
	ed     *editor.Editor
	runner *pipeline.Runner
	store  template.Store
	root   string
}

// newSession builds an editor wired to the configured cache, resolver and,
// on request, template store and gallery.
func (c *CLI) newSession(ctx context.Context, o sessionOpts) (*session, error) {
	root := o.root
	if root == "" {
		root = c.config().Render.Root
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return nil, err
	}
	s := &session{runner: runner, root: root}

	r := c.config().Render
	opts := []editor.Option{
		editor.WithLogger(c.Logger),
		editor.WithRunner(runner),
		editor.WithResolver(c.newResolver(root, runner.Cache)),
		editor.WithExportDefaults(r.Oversample, r.Quality),
	}
	if o.templates {
		store, err := c.newTemplateStore(ctx)
		if err != nil {
			_ = runner.Close()
			return nil, fmt.Errorf("open template store: %w", err)
		}
		s.store = store
		opts = append(opts, editor.WithTemplates(store))
	}
	if o.gallery {
		g, err := c.newGallery(ctx)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open gallery: %w", err)
		}
		opts = append(opts, editor.WithGallery(g))
	}
	s.ed = editor.New(opts...)
	return s, nil
}

// Close releases the store and cache.
func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	_ = s.runner.Close()
}

// load applies a template given as a JSON file path or a stored id.
func (s *session) load(ctx context.Context, arg string) error {
	if isFile(arg) {
		rec, err := readRecord(arg)
		if err != nil {
			return err
		}
		return s.ed.ApplyRecord(rec)
	}
	if s.store == nil {
		return errors.New(errors.ErrCodeTemplateNotFound, "no template file %s", arg)
	}
	return s.ed.LoadTemplate(ctx, arg)
}

// addPhotos resolves local paths against the session root and fills the
// empty slots. It returns how many were placed.
func (s *session) addPhotos(args []string) (int, error) {
	refs := make([]string, 0, len(args))
	for _, a := range args {
		ref, err := localRef(s.root, a)
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}
	return s.ed.AddPhotos(refs...), nil
}

// readRecord reads a template record from a JSON file.
func readRecord(path string) (*strip.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	var rec strip.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse %s", path)
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &rec, nil
}

// writeRecord writes rec as indented JSON to path, or stdout for "" and "-".
func writeRecord(path string, rec *strip.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// localRef turns a path argument into a reference the file resolver
// accepts: relative to root, without escaping it. Data URIs, URLs and
// in-memory references pass through.
func localRef(root, arg string) (string, error) {
	for _, scheme := range []string{"data:", "http://", "https://", "mem:"} {
		if strings.HasPrefix(arg, scheme) {
			return arg, nil
		}
	}
	path := strings.TrimPrefix(arg, "file:")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is outside %s (set --root)", arg, absRoot)
	}
	return filepath.ToSlash(rel), nil
}

// outputPath derives the file for one format from the -o flag. With several
// formats, -o is a base path and each gets its extension.
func outputPath(output, format string, multi bool) string {
	switch {
	case output == "":
		return sink.Filename(format)
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + sink.Ext(format)
	default:
		return output
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
