package theme

// Theme is an entry of the fixed card theme catalog.
type Theme struct {
	ID         string
	Name       string
	Foreground string
	Background string
	Accent     string
}

const DefaultID = "default"

var catalog = []Theme{
	{ID: DefaultID, Name: "Classic", Foreground: "#F8FAFC", Background: "#334155", Accent: "#FBBF24"},
	{ID: "ocean", Name: "Ocean Breeze", Foreground: "#ECFEFF", Background: "#0E7490", Accent: "#67E8F9"},
	{ID: "sunset", Name: "Sunset Glow", Foreground: "#FFF7ED", Background: "#C2410C", Accent: "#FDE68A"},
	{ID: "forest", Name: "Forest Calm", Foreground: "#F0FDF4", Background: "#166534", Accent: "#86EFAC"},
	{ID: "midnight", Name: "Midnight", Foreground: "#E0E7FF", Background: "#1E1B4B", Accent: "#A5B4FC"},
	{ID: "rose", Name: "Rose Quartz", Foreground: "#FFF1F2", Background: "#9F1239", Accent: "#FDA4AF"},
}

func All() []Theme {
	return append([]Theme(nil), catalog...)
}

// ByID looks up a theme, falling back to the default for unknown ids.
func ByID(id string) Theme {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return catalog[0]
}

func Exists(id string) bool {
	for _, t := range catalog {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Resolve returns id when it names a catalog theme and DefaultID otherwise.
func Resolve(id string) string {
	if Exists(id) {
		return id
	}
	return DefaultID
}
