package story

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownPreset = errors.New("unknown preset")

// PresetStyle is the art direction family of a visual preset. It is broader than StyleKey.
type PresetStyle string

const (
	Preset2D        PresetStyle = "2D"
	Preset3D        PresetStyle = "3D"
	PresetPixar     PresetStyle = "Pixar"
	PresetMarvel    PresetStyle = "Marvel"
	PresetRealistic PresetStyle = "Realistic"
	PresetAnime     PresetStyle = "Anime"
	PresetCartoon   PresetStyle = "Cartoon"
)

// VisualPreset is a named static bundle that overrides parts of a style profile.
type VisualPreset struct {
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	Style      PresetStyle `json:"style"`
	Palette    []string    `json:"palette"`
	Lenses     []string    `json:"lenses"`
	Lighting   string      `json:"lighting"`
	CameraMood string      `json:"camera_mood"`
}

var visualPresets = []VisualPreset{
	{
		Key:        "pixar_bright_kids",
		Name:       "Pixar Bright Kids (Cute Pastel)",
		Style:      PresetPixar,
		Palette:    []string{"#fca311", "#ffd166", "#95d5b2", "#8ecae6", "#ffadad"},
		Lenses:     []string{"35", "50", "85"},
		Lighting:   "softbox warm, big key, soft fill, gentle rim",
		CameraMood: "friendly eye-level, slow dolly",
	},
	{
		Key:        "pixar_heroic_warm",
		Name:       "Pixar Warm Heroic",
		Style:      PresetPixar,
		Palette:    []string{"#ff7f11", "#e85d04", "#f48c06", "#ffd166", "#2d3142"},
		Lenses:     []string{"28", "35", "50"},
		Lighting:   "warm key, soft bounce, subtle rim",
		CameraMood: "slow push-in, reveal",
	},
	{
		Key:        "marvel_urban",
		Name:       "Marvel Urban (City Contrast)",
		Style:      PresetMarvel,
		Palette:    []string{"#0ea5e9", "#ef4444", "#111827", "#64748b", "#fbbf24"},
		Lenses:     []string{"28", "35", "70"},
		Lighting:   "high contrast, cool fill + warm rim",
		CameraMood: "dynamic handheld + whip pan",
	},
	{
		Key:        "marvel_cosmic",
		Name:       "Marvel Cosmic (Vibrant)",
		Style:      PresetMarvel,
		Palette:    []string{"#7c3aed", "#06b6d4", "#10b981", "#f59e0b", "#f43f5e"},
		Lenses:     []string{"18", "28", "50"},
		Lighting:   "colorful gels, bloom highlights",
		CameraMood: "fast crane + orbit",
	},
	{
		Key:        "anime_shonen",
		Name:       "Anime Shonen (Energetic)",
		Style:      PresetAnime,
		Palette:    []string{"#ef4444", "#f59e0b", "#f97316", "#2563eb", "#1f2937"},
		Lenses:     []string{"35", "50"},
		Lighting:   "cel shading, strong key, speedlines",
		CameraMood: "dutch angles, smash-zoom",
	},
	{
		Key:        "anime_ghibli_pastel",
		Name:       "Anime Ghibli Pastel",
		Style:      PresetAnime,
		Palette:    []string{"#a7c957", "#8ecae6", "#f9c74f", "#fefae0", "#90be6d"},
		Lenses:     []string{"35", "50"},
		Lighting:   "soft ambient, painterly",
		CameraMood: "calm pans",
	},
	{
		Key:        "realistic_docu",
		Name:       "Realistic Documentary",
		Style:      PresetRealistic,
		Palette:    []string{"#94a3b8", "#334155", "#0f172a", "#eab308", "#2563eb"},
		Lenses:     []string{"35", "50"},
		Lighting:   "natural daylight, available light",
		CameraMood: "handheld vérité",
	},
	{
		Key:        "realistic_noir",
		Name:       "Realistic Cinematic Noir",
		Style:      PresetRealistic,
		Palette:    []string{"#111827", "#374151", "#9ca3af", "#e5e7eb", "#d97706"},
		Lenses:     []string{"35", "70", "100"},
		Lighting:   "low key, hard shadows",
		CameraMood: "locked + slow push",
	},
	{
		Key:        "twod_flat_pastel",
		Name:       "2D Flat Pastel",
		Style:      Preset2D,
		Palette:    []string{"#f1faee", "#a8dadc", "#457b9d", "#ffcad4", "#bde0fe"},
		Lenses:     []string{"35", "50"},
		Lighting:   "flat light, bold outlines",
		CameraMood: "simple pans",
	},
	{
		Key:        "threed_claymation",
		Name:       "3D Claymation (Stop-motion feel)",
		Style:      Preset3D,
		Palette:    []string{"#e76f51", "#2a9d8f", "#264653", "#e9c46a", "#f4a261"},
		Lenses:     []string{"35", "85"},
		Lighting:   "soft tungsten practicals",
		CameraMood: "tabletop push",
	},
	{
		Key:        "cartoon_saturday",
		Name:       "Cartoon Saturday",
		Style:      PresetCartoon,
		Palette:    []string{"#ff6b6b", "#ffd93d", "#6bcB77", "#4d96ff", "#2b2d42"},
		Lenses:     []string{"35", "50"},
		Lighting:   "bright flat, saturated",
		CameraMood: "quick cuts",
	},
}

func clonePreset(p VisualPreset) VisualPreset {
	p.Palette = slices.Clone(p.Palette)
	p.Lenses = slices.Clone(p.Lenses)
	return p
}

func LookupPreset(key string) (VisualPreset, error) {
	for _, p := range visualPresets {
		if p.Key == key {
			return clonePreset(p), nil
		}
	}
	return VisualPreset{}, fmt.Errorf("%w %q", ErrUnknownPreset, key)
}

// Presets returns all visual presets in display order.
func Presets() []VisualPreset {
	presets := make([]VisualPreset, 0, len(visualPresets))
	for _, p := range visualPresets {
		presets = append(presets, clonePreset(p))
	}
	return presets
}

// StyleKey maps the preset family to the closest style profile.
func (s PresetStyle) StyleKey() StyleKey {
	switch s {
	case PresetMarvel:
		return StyleMarvel
	case PresetPixar, Preset3D:
		return StylePixar
	case PresetAnime:
		return StyleAnime
	case PresetRealistic:
		return StyleRealFilm
	default:
		return StyleCartoon
	}
}

// StyleHint is the one-line rendering instruction for a preset family.
func StyleHint(style PresetStyle) string {
	switch style {
	case Preset2D:
		return "global.style.profile='2D Cartoon', flat shading, bold outlines, vibrant palette"
	case Preset3D:
		return "global.style.profile='3D', PBR materials, soft global illumination, cinematic DOF"
	case PresetPixar:
		return "global.style.profile='Pixar-like', friendly proportions, SSS skin, warm palette"
	case PresetMarvel:
		return "global.style.profile='Marvel-like', heroic proportions, dramatic contrast, dynamic camera"
	case PresetRealistic:
		return "global.style.profile='Photoreal', accurate skin shaders, realistic cloth sim, natural lighting"
	case PresetAnime:
		return "global.style.profile='Anime', cel shading, expressive eyes, dynamic speed lines"
	default:
		return "global.style.profile='Cartoon', bright, sunny, friendly"
	}
}
