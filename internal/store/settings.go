package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight || t == ThemeAuto
}

// Settings are the user's app preferences.
type Settings struct {
	Theme             Theme `json:"theme"`
	AnimationsEnabled bool  `json:"animationsEnabled"`
	SoundEnabled      bool  `json:"soundEnabled"`
	HapticEnabled     bool  `json:"hapticEnabled"`
	GridColumns       int   `json:"gridColumns"`
	ShowOwned         bool  `json:"showOwned"`
	ShowUnowned       bool  `json:"showUnowned"`
}

// DefaultSettings returns first-run settings.
func DefaultSettings() Settings {
	return Settings{
		Theme:             ThemeDark,
		AnimationsEnabled: true,
		SoundEnabled:      true,
		HapticEnabled:     true,
		GridColumns:       3,
		ShowOwned:         true,
		ShowUnowned:       true,
	}
}

func validGridColumns(n int) bool {
	return n == 3 || n == 4
}

// SettingsPatch changes selected settings. Nil fields are left as is;
// invalid theme or grid values are ignored.
type SettingsPatch struct {
	Theme             *Theme `json:"theme,omitempty"`
	AnimationsEnabled *bool  `json:"animationsEnabled,omitempty"`
	SoundEnabled      *bool  `json:"soundEnabled,omitempty"`
	HapticEnabled     *bool  `json:"hapticEnabled,omitempty"`
	GridColumns       *int   `json:"gridColumns,omitempty"`
	ShowOwned         *bool  `json:"showOwned,omitempty"`
	ShowUnowned       *bool  `json:"showUnowned,omitempty"`
}

func (p SettingsPatch) apply(s Settings) Settings {
	if p.Theme != nil && p.Theme.Valid() {
		s.Theme = *p.Theme
	}
	if p.AnimationsEnabled != nil {
		s.AnimationsEnabled = *p.AnimationsEnabled
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.HapticEnabled != nil {
		s.HapticEnabled = *p.HapticEnabled
	}
	if p.GridColumns != nil && validGridColumns(*p.GridColumns) {
		s.GridColumns = *p.GridColumns
	}
	if p.ShowOwned != nil {
		s.ShowOwned = *p.ShowOwned
	}
	if p.ShowUnowned != nil {
		s.ShowUnowned = *p.ShowUnowned
	}
	return s
}

// SettingsStore owns the settings singleton.
type SettingsStore struct {
	base
	settings Settings
}

// NewSettingsStore creates a store holding DefaultSettings.
func NewSettingsStore(deps Deps) *SettingsStore {
	s := &SettingsStore{settings: DefaultSettings()}
	s.init(KeySettings, events.SettingsUpdated, deps)
	return s
}

// Load merges the persisted settings over the defaults field by field.
// Booleans stored as numbers or strings are coerced; missing or invalid
// fields keep their default.
func (s *SettingsStore) Load(ctx context.Context) error {
	var raw map[string]json.RawMessage
	ok, err := s.read(ctx, &raw)
	if err != nil || !ok {
		return err
	}
	merged := mergeSettings(DefaultSettings(), raw)

	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()
	return nil
}

func mergeSettings(s Settings, raw map[string]json.RawMessage) Settings {
	if v, ok := raw["theme"]; ok {
		var theme Theme
		if json.Unmarshal(v, &theme) == nil && theme.Valid() {
			s.Theme = theme
		}
	}
	if v, ok := raw["gridColumns"]; ok {
		var n int
		if json.Unmarshal(v, &n) == nil && validGridColumns(n) {
			s.GridColumns = n
		}
	}
	for name, field := range map[string]*bool{
		"animationsEnabled": &s.AnimationsEnabled,
		"soundEnabled":      &s.SoundEnabled,
		"hapticEnabled":     &s.HapticEnabled,
		"showOwned":         &s.ShowOwned,
		"showUnowned":       &s.ShowUnowned,
	} {
		if v, ok := raw[name]; ok {
			*field = coerceBool(v, *field)
		}
	}
	return s
}

// coerceBool reads a JSON value as a boolean. Numbers are true when
// non-zero, null is false, and strings go through strconv.ParseBool with
// the empty string as false. Anything else returns def.
func coerceBool(v json.RawMessage, def bool) bool {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return def
	}
	switch t := x.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return false
		}
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return def
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update merges patch into the settings.
func (s *SettingsStore) Update(ctx context.Context, patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	s.settings = patch.apply(s.settings)
	out := s.settings
	p := s.stage(out)
	s.mu.Unlock()
	return out, s.commit(ctx, p, events.SettingsUpdatedEvent{})
}

// Reset restores the defaults.
func (s *SettingsStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.settings = DefaultSettings()
	p := s.stage(s.settings)
	s.mu.Unlock()
	return s.commit(ctx, p, events.SettingsUpdatedEvent{Reset: true})
}
