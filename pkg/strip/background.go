package strip

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// BackgroundMode selects how the canvas is filled.
type BackgroundMode string

const (
	BackgroundColor    BackgroundMode = "color"
	BackgroundImage    BackgroundMode = "image"
	BackgroundTemplate BackgroundMode = "template"
)

// Background holds exactly one active fill. Value is a hex color for
// BackgroundColor and an image reference otherwise. An empty color means
// "use the design preset".
type Background struct {
	Mode  BackgroundMode `json:"mode"`
	Value string         `json:"value"`
}

// IsTemplate reports whether a template image anchors the layout.
func (b Background) IsTemplate() bool {
	return b.Mode == BackgroundTemplate && b.Value != ""
}

// Validate checks the mode and, for colors, the value.
func (b Background) Validate() error {
	switch b.Mode {
	case BackgroundColor:
		if b.Value == "" {
			return nil
		}
		if _, err := ParseColor(b.Value); err != nil {
			return err
		}
	case BackgroundImage, BackgroundTemplate:
		if b.Value == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s background needs an image reference", b.Mode)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown background mode %q", b.Mode)
	}
	return nil
}

// ParseColor parses a #rgb or #rrggbb string.
func ParseColor(s string) (colorful.Color, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return c, nil
}
