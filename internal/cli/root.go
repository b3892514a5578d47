package cli

import (
	"context"
	"os"

	"github.com/matzehuels/photostrip/pkg/buildinfo"
)

// SetVersion overrides the build information shown by --version, for
// builds that do not inject it with ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the photostrip CLI with logs on stderr.
//
// Logging:
//   - Default: info level
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
