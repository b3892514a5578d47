package strip

// Design is a named color preset applied when no explicit background color
// is set.
type Design struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Designs lists the built-in presets. The first entry is the default.
var Designs = []Design{
	{ID: "wbc-party", Label: "WBC Party", Background: "#005f73", Text: "#ffffff"},
	{ID: "classic-white", Label: "Classic White", Background: "#ffffff", Text: "#18181b"},
	{ID: "classic-black", Label: "Classic Black", Background: "#000000", Text: "#ffffff"},
	{ID: "soft-cream", Label: "Soft Cream", Background: "#f4f1ea", Text: "#3f3f46"},
	{ID: "party-teal", Label: "Party Teal", Background: "#0d9488", Text: "#ffffff"},
	{ID: "rose-pink", Label: "Rose Pink", Background: "#fda4af", Text: "#881337"},
	{ID: "polaroid-teal", Label: "Polaroid Teal", Background: "#00798c", Text: "#ffffff"},
}

// DesignByID looks up a preset, falling back to the default.
func DesignByID(id string) Design {
	for _, d := range Designs {
		if d.ID == id {
			return d
		}
	}
	return Designs[0]
}
