package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the colour scheme of the chat screen.
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// UserBubble and BotBubble colour the message borders and labels.
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color

	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var (
	// TokyoNightTheme is the default theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Background:  lipgloss.Color("#1a1b26"),
		Surface:     lipgloss.Color("#24283b"),
		Border:      lipgloss.Color("#414868"),
		UserBubble:  lipgloss.Color("#7aa2f7"),
		BotBubble:   lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
	}

	// SepiaTheme mimics aged paper
	SepiaTheme = TUITheme{
		Name:        "sepia",
		Description: "Sepia - warm paper tones",
		Background:  lipgloss.Color("#2b2118"),
		Surface:     lipgloss.Color("#3a2d21"),
		Border:      lipgloss.Color("#6b5843"),
		UserBubble:  lipgloss.Color("#d9b38c"),
		BotBubble:   lipgloss.Color("#a3b18a"),
		Accent:      lipgloss.Color("#e9c46a"),
		Warning:     lipgloss.Color("#f4a261"),
		Error:       lipgloss.Color("#e76f51"),
		Text:        lipgloss.Color("#f1e3c8"),
		TextDim:     lipgloss.Color("#9c8670"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - arctic, cool tones",
		Background:  lipgloss.Color("#2e3440"),
		Surface:     lipgloss.Color("#3b4252"),
		Border:      lipgloss.Color("#4c566a"),
		UserBubble:  lipgloss.Color("#88c0d0"),
		BotBubble:   lipgloss.Color("#a3be8c"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
	}

	// MonoTheme avoids colour for limited terminals
	MonoTheme = TUITheme{
		Name:        "mono",
		Description: "Mono - greyscale only",
		Background:  lipgloss.Color("0"),
		Surface:     lipgloss.Color("236"),
		Border:      lipgloss.Color("240"),
		UserBubble:  lipgloss.Color("252"),
		BotBubble:   lipgloss.Color("248"),
		Accent:      lipgloss.Color("255"),
		Warning:     lipgloss.Color("250"),
		Error:       lipgloss.Color("255"),
		Text:        lipgloss.Color("252"),
		TextDim:     lipgloss.Color("244"),
	}
)

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active theme.
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave it unchanged.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes lists the themes, default first.
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		SepiaTheme,
		NordTheme,
		MonoTheme,
	}
}

// TUIThemeNames returns just the theme names for selection.
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
