package strip

// Layout defaults.
const (
	DefaultGap        = 12
	DefaultPadding    = 8
	DefaultPhotoCount = 3
	MinPhotoCount     = 1
	MaxPhotoCount     = 4

	// TemplateSideInset is the fixed horizontal inset of slots generated by
	// confirming a template layout.
	TemplateSideInset = 15
)

// Params are the composition-wide layout parameters.
type Params struct {
	PaddingTop    float64 `json:"paddingTop"`
	PaddingSide   float64 `json:"paddingSide"`
	PaddingBottom float64 `json:"paddingBottom"`
	Gap           float64 `json:"gap"`
	CornerRadius  float64 `json:"cornerRadius"`
	CanvasHeight  float64 `json:"canvasHeight"`
}

// DefaultParams returns the starting parameters.
func DefaultParams() Params {
	return Params{
		PaddingTop:    DefaultPadding,
		PaddingSide:   DefaultPadding,
		PaddingBottom: DefaultPadding,
		Gap:           DefaultGap,
		CanvasHeight:  DefaultCanvasHeight,
	}
}

// Normalize replaces negative values with zero and a missing height with
// the default, and caps every value at MaxCanvasHeight.
func (p Params) Normalize() Params {
	for _, f := range []*float64{&p.PaddingTop, &p.PaddingSide, &p.PaddingBottom, &p.Gap, &p.CornerRadius} {
		switch {
		case !(*f >= 0):
			*f = 0
		case *f > MaxCanvasHeight:
			*f = MaxCanvasHeight
		}
	}
	switch {
	case !(p.CanvasHeight > 0):
		p.CanvasHeight = DefaultCanvasHeight
	case p.CanvasHeight > MaxCanvasHeight:
		p.CanvasHeight = MaxCanvasHeight
	}
	return p
}

// ClampPhotoCount limits n to [MinPhotoCount, MaxPhotoCount].
func ClampPhotoCount(n int) int {
	if n < MinPhotoCount {
		return MinPhotoCount
	}
	if n > MaxPhotoCount {
		return MaxPhotoCount
	}
	return n
}
