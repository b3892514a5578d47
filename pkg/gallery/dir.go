package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// Dir archives into a local directory.
type Dir struct {
	root string
}

// NewDir creates the directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "create gallery dir")
	}
	return &Dir{root: root}, nil
}

// Root returns the archive directory.
func (d *Dir) Root() string { return d.root }

// Deliver writes a new file. Exports within the same second get a numeric
// suffix instead of overwriting each other.
func (d *Dir) Deliver(_ context.Context, a Artifact) (string, error) {
	name := Filename(a)
	base, extn := strings.TrimSuffix(name, filepath.Ext(name)), filepath.Ext(name)
	for i := 1; ; i++ {
		path := filepath.Join(d.root, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			name = fmt.Sprintf("%s-%d%s", base, i, extn)
			continue
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodePersistence, err, "create %s", name)
		}
		if _, err := f.Write(a.Data); err != nil {
			f.Close()
			os.Remove(path)
			return "", errors.Wrap(errors.ErrCodePersistence, err, "write %s", name)
		}
		if err := f.Close(); err != nil {
			return "", errors.Wrap(errors.ErrCodePersistence, err, "write %s", name)
		}
		return path, nil
	}
}

func (d *Dir) List(_ context.Context) ([]Entry, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read gallery dir")
	}
	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !IsArchived(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	SortNewest(out)
	return out, nil
}

// Open reads an archived file by name.
func (d *Dir) Open(name string) ([]byte, error) {
	if !IsArchived(name) || filepath.Base(name) != name {
		return nil, errors.New(errors.ErrCodeInvalidPath, "not a gallery file: %s", name)
	}
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "gallery file %s not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read %s", name)
	}
	return data, nil
}

// Clear removes only archived files; anything else in the directory stays.
func (d *Dir) Clear(ctx context.Context) (int, error) {
	entries, err := d.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if err := os.Remove(filepath.Join(d.root, e.Name)); err == nil {
			n++
		}
	}
	return n, nil
}

var _ Sink = (*Dir)(nil)
