package model

// DefaultIcon is used when a collection has no icon or an unrecognized one.
const DefaultIcon = "Collection"

// icons is the fixed set of symbolic icon names a collection may carry.
var icons = map[string]bool{
	"Collection": true,
	"Palette":    true,
	"BookOpen":   true,
	"Tool":       true,
	"Code":       true,
	"Globe":      true,
	"Star":       true,
	"Music":      true,
	"Camera":     true,
	"Briefcase":  true,
}

// NormalizeIcon maps an icon name onto the known set, falling back to
// DefaultIcon for empty or unrecognized names.
func NormalizeIcon(name string) string {
	if icons[name] {
		return name
	}
	return DefaultIcon
}

// Icons returns the valid icon names in a stable order.
func Icons() []string {
	return []string{
		"Collection", "Palette", "BookOpen", "Tool", "Code",
		"Globe", "Star", "Music", "Camera", "Briefcase",
	}
}
