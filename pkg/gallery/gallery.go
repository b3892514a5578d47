// Package gallery archives exported strips.
//
// A [Sink] receives finished artifacts and returns where they were stored.
// Two sinks are provided: [Dir] writes timestamped files to a local folder
// and [S3] uploads to a bucket. Both name files
// photostrip_<timestamp>.<ext>; [Dir] appends -<n> for repeats within one
// second. [SortNewest] orders by both.
package gallery

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Prefix starts every archived file name.
const Prefix = "photostrip_"

// TimestampLayout is the file-name timestamp, UTC.
const TimestampLayout = "2006-01-02T15-04-05"

// Artifact is one exported file.
type Artifact struct {
	Format    string
	Data      []byte
	CreatedAt time.Time
}

// Entry describes an archived file.
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Sink stores artifacts.
type Sink interface {
	// Deliver stores a and returns its location (path or URL).
	Deliver(ctx context.Context, a Artifact) (string, error)
	// List returns archived entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Clear removes every archived entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Filename returns the archive name for an artifact.
func Filename(a Artifact) string {
	t := a.CreatedAt
	if t.IsZero() {
		t = time.Now()
	}
	return Prefix + t.UTC().Format(TimestampLayout) + "." + ext(a.Format)
}

// IsArchived reports whether name was produced by this package.
func IsArchived(name string) bool {
	if !strings.HasPrefix(name, Prefix) {
		return false
	}
	for _, e := range []string{".png", ".jpg", ".pdf"} {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// SortNewest orders entries newest first by the timestamp and same-second
// sequence in their names, then by modification time.
func SortNewest(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		si, ni := archiveStamp(entries[i].Name)
		sj, nj := archiveStamp(entries[j].Name)
		if si != sj {
			return si > sj
		}
		if ni != nj {
			return ni > nj
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
}

// archiveStamp splits photostrip_<timestamp>[-<n>].<ext> into the timestamp
// and the sequence number, which is 0 for the first file of a second.
func archiveStamp(name string) (string, int) {
	rest := strings.TrimPrefix(name, Prefix)
	rest = strings.TrimSuffix(rest, path.Ext(rest))
	if len(rest) < len(TimestampLayout) {
		return rest, 0
	}
	stamp, suffix := rest[:len(TimestampLayout)], rest[len(TimestampLayout):]
	n, err := strconv.Atoi(strings.TrimPrefix(suffix, "-"))
	if err != nil {
		return stamp, 0
	}
	return stamp, n
}

// ContentType maps a format to its MIME type.
func ContentType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "pdf":
		return "application/pdf"
	}
	return "image/png"
}

func ext(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpg"
	case "pdf":
		return "pdf"
	}
	return "png"
}
