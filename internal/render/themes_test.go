package render

import "testing"

func TestIsBuiltinStyle(t *testing.T) {
	tests := []struct {
		style string
		want  bool
	}{
		{StyleDark, true},
		{StyleLight, true},
		{StyleNoTTY, true},
		{StyleTokyoNight, true},
		{"/tmp/custom.json", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsBuiltinStyle(tt.style); got != tt.want {
			t.Errorf("IsBuiltinStyle(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}

func TestAvailableThemes(t *testing.T) {
	themes := AvailableThemes()
	if len(themes) == 0 {
		t.Fatal("expected themes")
	}
	if themes[0].Name != StyleDark {
		t.Errorf("first theme = %s, want dark", themes[0].Name)
	}

	seen := map[string]bool{}
	for _, theme := range themes {
		if theme.Description == "" {
			t.Errorf("theme %s has empty description", theme.Name)
		}
		if seen[theme.Name] {
			t.Errorf("duplicate theme %s", theme.Name)
		}
		seen[theme.Name] = true
		if !IsBuiltinStyle(theme.Name) {
			t.Errorf("listed theme %s is not built in", theme.Name)
		}
	}

	names := ThemeNames()
	if len(names) != len(themes) {
		t.Errorf("ThemeNames() returned %d names, want %d", len(names), len(themes))
	}
}
