package render

import (
	"sort"

	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names understood without a style file.
const (
	StyleAuto       = styles.AutoStyle
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleASCII      = styles.AsciiStyle
	StyleNoTTY      = styles.NoTTYStyle
)

var styleDescriptions = map[string]string{
	StyleDark:       "Dark theme (default)",
	StyleLight:      "Light theme for bright terminals",
	StyleDracula:    "Dracula color scheme",
	StyleTokyoNight: "Tokyo Night color scheme",
	StylePink:       "Pink accents",
	StyleASCII:      "ASCII-only output",
	StyleNoTTY:      "Plain text (no styling)",
}

// IsBuiltinStyle reports whether glamour ships a style with this name.
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeInfo describes a markdown style for the settings menu.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the built-in markdown styles, default first.
func AvailableThemes() []ThemeInfo {
	names := make([]string, 0, len(styles.DefaultStyles))
	for name := range styles.DefaultStyles {
		if name == StyleDark {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	themes := []ThemeInfo{{Name: StyleDark, Description: styleDescriptions[StyleDark]}}
	for _, name := range names {
		desc, ok := styleDescriptions[name]
		if !ok {
			desc = name
		}
		themes = append(themes, ThemeInfo{Name: name, Description: desc})
	}
	return themes
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
