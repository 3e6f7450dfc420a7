package story

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownStyle = errors.New("unknown style")

// StyleProfile is the fixed look and sound of a style.
type StyleProfile struct {
	Key         StyleKey `json:"key"`
	Grading     string   `json:"grading"`
	Palette     []Swatch `json:"palette"`
	LensDefault string   `json:"lens_default"`
	MusicGlobal []string `json:"music_global"`
	SFXGlobal   []string `json:"sfx_global"`
	Lighting    Lighting `json:"lighting"`
	// Weather and Location seed the environment of every scene.
	Weather  string   `json:"weather"`
	Location string   `json:"location"`
	Textures []string `json:"textures"`
}

var styleKeys = []StyleKey{StyleMarvel, StylePixar, StyleAnime, StyleCartoon, StyleRealFilm}

var styleProfiles = map[StyleKey]StyleProfile{
	StyleMarvel: {
		Grading: "epic, high contrast, cool shadows + warm key",
		Palette: []Swatch{
			{"hero", "#1E90FF"}, {"fire", "#FF4500"}, {"tech", "#C0C0C0"}, {"shadow", "#0B1220"},
		},
		LensDefault: "anamorphic 40mm",
		MusicGlobal: []string{"orchestral heroic", "big drums"},
		SFXGlobal:   []string{"whoosh", "debris rumble", "metal clank"},
		Lighting:    Lighting{Key: "hard warm key", Fill: "cool low fill", Rim: "strong cyan rim", Volumetric: true},
		Weather:     "dusk haze with drifting smoke",
		Location:    "city rooftop at dusk",
		Textures:    []string{"brushed metal", "concrete", "glass reflections"},
	},
	StylePixar: {
		Grading: "bright, warm, family-friendly contrast",
		Palette: []Swatch{
			{"sun", "#FDBA74"}, {"sky", "#60A5FA"}, {"leaf", "#34D399"}, {"shadow", "#0B1220"},
		},
		LensDefault: "35mm cinematic",
		MusicGlobal: []string{"warm strings", "light percussion"},
		SFXGlobal:   []string{"soft footsteps", "playful whoosh"},
		Lighting:    Lighting{Key: "soft warm key", Fill: "gentle cool fill", Rim: "subtle golden rim", Volumetric: true},
		Weather:     "sunny, light breeze",
		Location:    "sunny park playground",
		Textures:    []string{"soft grass", "painted wood", "rounded plastic"},
	},
	StyleAnime: {
		Grading: "pastel + sharp contrast highlights",
		Palette: []Swatch{
			{"sakura", "#F472B6"}, {"aqua", "#22D3EE"}, {"ink", "#111827"},
		},
		LensDefault: "28mm stylized",
		MusicGlobal: []string{"anime orchestral", "percussive build"},
		SFXGlobal:   []string{"cel whoosh", "impact light"},
		Lighting:    Lighting{Key: "crisp cel key", Fill: "pastel ambient fill", Rim: "sharp white rim", Volumetric: false},
		Weather:     "clear sky, drifting petals",
		Location:    "school courtyard with cherry trees",
		Textures:    []string{"cel-shaded surfaces", "painted sky", "ink outlines"},
	},
	StyleCartoon: {
		Grading: "vivid saturation, playful contrast",
		Palette: []Swatch{
			{"primary", "#3B82F6"}, {"accent", "#F59E0B"}, {"joy", "#10B981"},
		},
		LensDefault: "30mm toon",
		MusicGlobal: []string{"comedy light", "quirky mallets"},
		SFXGlobal:   []string{"boing", "slide whistle", "pop"},
		Lighting:    Lighting{Key: "bright flat key", Fill: "even fill", Rim: "soft color rim", Volumetric: false},
		Weather:     "sunny, puffy clouds",
		Location:    "colorful zoo path",
		Textures:    []string{"flat color fills", "bold outlines", "glossy props"},
	},
	StyleRealFilm: {
		Grading: "filmic, neutral with subtle teal & orange",
		Palette: []Swatch{
			{"skin", "#E5B299"}, {"teal", "#2DD4BF"}, {"shadow", "#0B1220"},
		},
		LensDefault: "50mm cine / telephoto for close-ups",
		MusicGlobal: []string{"cinematic ambient", "dramatic pulses"},
		SFXGlobal:   []string{"room tone", "cloth rustle", "foley steps"},
		Lighting:    Lighting{Key: "natural window key", Fill: "negative fill", Rim: "practical backlight", Volumetric: true},
		Weather:     "overcast, soft diffused daylight",
		Location:    "quiet city street",
		Textures:    []string{"weathered brick", "wet asphalt", "film grain"},
	},
}

// LookupStyle returns the profile of key. Unknown keys return ErrUnknownStyle.
func LookupStyle(key StyleKey) (StyleProfile, error) {
	p, ok := styleProfiles[key]
	if !ok {
		return StyleProfile{}, fmt.Errorf("%w %q (valid: %v)", ErrUnknownStyle, key, styleKeys)
	}
	p.Key = key
	p.Palette = slices.Clone(p.Palette)
	p.MusicGlobal = slices.Clone(p.MusicGlobal)
	p.SFXGlobal = slices.Clone(p.SFXGlobal)
	p.Textures = slices.Clone(p.Textures)
	return p, nil
}

// Styles returns all style profiles in display order.
func Styles() []StyleProfile {
	profiles := make([]StyleProfile, 0, len(styleKeys))
	for _, key := range styleKeys {
		p, _ := LookupStyle(key)
		profiles = append(profiles, p)
	}
	return profiles
}

func StyleKeys() []StyleKey {
	return slices.Clone(styleKeys)
}
