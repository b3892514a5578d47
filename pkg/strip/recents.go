package strip

// RecentsLimit caps each recents list.
const RecentsLimit = 5

// RecentKind names a recents list.
type RecentKind string

const (
	RecentColors         RecentKind = "colors"
	RecentBackgrounds    RecentKind = "bgImages"
	RecentTemplateImages RecentKind = "templateImages"
)

// Recents holds most-recently-used values, newest first.
type Recents map[RecentKind][]string

// Push moves v to the front of the kind's list, dropping duplicates and
// anything past RecentsLimit. Empty values are ignored.
func (r Recents) Push(kind RecentKind, v string) {
	if v == "" {
		return
	}
	list := []string{v}
	for _, x := range r[kind] {
		if x != v && len(list) < RecentsLimit {
			list = append(list, x)
		}
	}
	r[kind] = list
}

// Get returns a copy of the kind's list.
func (r Recents) Get(kind RecentKind) []string {
	return append([]string(nil), r[kind]...)
}
