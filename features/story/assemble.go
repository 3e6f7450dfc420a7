package story

import (
	"crypto/rand"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/sagan/laras/constants"
)

type ItemKind string

const (
	ItemProp     ItemKind = "prop"
	ItemFlora    ItemKind = "flora"
	ItemFauna    ItemKind = "fauna"
	ItemEffect   ItemKind = "effect"
	ItemSFX      ItemKind = "sfx"
	ItemParticle ItemKind = "particle"
)

// Item is a user entered object or environment element.
type Item struct {
	Kind ItemKind `json:"kind"`
	Name string   `json:"name"`
}

// Request is the complete form state a draft is assembled from.
type Request struct {
	Title       string   `json:"title,omitempty"`
	Instruction string   `json:"instruction,omitempty"`
	Style       StyleKey `json:"style,omitempty"`
	Preset      string   `json:"preset,omitempty"`
	// Scenes is the requested scene count. If 0, it is derived from TotalSeconds.
	Scenes       int `json:"scenes,omitempty"`
	TotalSeconds int `json:"total_seconds,omitempty"`
	// Split uses the splitter durations (last scene may be shorter) instead of
	// fixed 8 second scenes. Only applies when Scenes is 0.
	Split bool `json:"split,omitempty"`
	// Beats > 0 produces a "laras.story" document paced over that many beats.
	Beats      int         `json:"beats,omitempty"`
	Characters []Character `json:"characters,omitempty"`
	Objects    []Item      `json:"objects,omitempty"`
	Locations  []string    `json:"locations,omitempty"`
	Aspect     string      `json:"aspect,omitempty"`
	Resolution string      `json:"resolution,omitempty"`
	FPS        int         `json:"fps,omitempty"`
	SafeMode   bool        `json:"safe_mode"`
	Language   string      `json:"language,omitempty"`
	MixProfile string      `json:"mix_profile,omitempty"`
}

// DefaultRequest returns the initial form state.
func DefaultRequest() Request {
	return Request{
		Title:        "Untitled",
		Instruction:  "Buat film kartun edukatif 1 menit tema kebun binatang; ceria, ramah, positif.",
		Style:        StyleCartoon,
		TotalSeconds: 60,
		Aspect:       "16:9",
		FPS:          24,
		SafeMode:     true,
		Language:     "id",
		MixProfile:   "stereo, dialog-forward",
	}
}

type Option func(*assembler)

// WithRand sets the random source of design_id, seed and generated character ids.
func WithRand(r io.Reader) Option {
	return func(a *assembler) {
		a.rand = r
	}
}

// WithClock sets the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(a *assembler) {
		a.now = now
	}
}

type assembler struct {
	rand io.Reader
	now  func() time.Time
}

func (a *assembler) uuid() (string, error) {
	id, err := uuid.NewRandomFromReader(a.rand)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

var aspectResolutions = map[string]string{
	"16:9": "1920x1080",
	"9:16": "1080x1920",
	"1:1":  "1080x1080",
}

var stageNames = []string{"Build", "Rising", "Midpoint", "Climax", "Resolution"}

var stageActions = map[string]string{
	"Intro":      "Establish the setting and introduce the characters.",
	"Build":      "Set up the goal and let the characters interact with the place.",
	"Rising":     "Raise the stakes with a small obstacle.",
	"Midpoint":   "A turn of events changes the plan.",
	"Climax":     "Peak moment of the story, maximum energy.",
	"Resolution": "Tension releases and the characters reconnect.",
	"Outro":      "Warm closing image that sums up the message.",
}

// Placeholder lines, rewritten in the voiceover language on enhance.
var stageDialogues = map[string]string{
	"Intro":      "Once upon a time, in a place not so far away...",
	"Build":      "Come on, let's see what is over there.",
	"Rising":     "Wait, something is not right.",
	"Midpoint":   "Then we need a new plan.",
	"Climax":     "Now or never!",
	"Resolution": "We did it, together.",
	"Outro":      "And that is how the story ends.",
}

var beatNames = []string{"Hook", "Setup", "Rising Action", "Climax", "Falling Action", "Resolution"}

var cameraPresets = []Camera{
	{Angle: "wide establishing", Movement: "slow dolly in", DOF: "deep", Framing: "wide shot"},
	{Angle: "eye-level", Movement: "tracking side", DOF: "medium", Framing: "medium shot"},
	{Angle: "low angle", Movement: "push in", DOF: "shallow", Framing: "medium close-up"},
	{Angle: "over-the-shoulder", Movement: "static", DOF: "shallow", Framing: "over-the-shoulder"},
	{Angle: "high angle", Movement: "crane up", DOF: "deep", Framing: "wide shot"},
}

var (
	safeSafety = Safety{
		Do:   []string{"family-friendly content", "positive role models", "clear, kind language", "safe physical actions"},
		Dont: []string{"violence or gore", "frightening imagery", "unsafe stunts", "brand logos or copyrighted characters"},
	}
	openSafety = Safety{
		Do:   []string{"stylized action is allowed", "dramatic tension is allowed", "keep it non-graphic"},
		Dont: []string{"graphic gore", "hate or harassment", "real-person likeness", "brand logos or copyrighted characters"},
	}
)

// SceneName returns the structural label of the scene at 1-based index i of n.
func SceneName(i, n int) string {
	switch {
	case i == 1:
		return "Intro"
	case i == n:
		return "Outro"
	}
	k := i - 2
	name := stageNames[k%len(stageNames)]
	if cycle := k / len(stageNames); cycle > 0 {
		name = fmt.Sprintf("%s %d", name, cycle+1)
	}
	return name
}

func stageOf(name string) string {
	stage, _, _ := strings.Cut(name, " ")
	return stage
}

func styleEnvSeed(style StyleKey) EnvDetail {
	switch style {
	case StyleMarvel:
		return EnvDetail{
			Sky:        Sky{Type: "stormy dusk", Cloud: "heavy layered", Color: "steel blue to amber", Haze: "smoky"},
			Lighting:   EnvLighting{ColorGrade: "teal shadows, warm highlights"},
			Ground:     Ground{Material: "concrete rooftop", Reflection: "wet patches"},
			Flora:      []string{},
			Fauna:      []string{},
			Props:      []string{"antenna mast", "water tower"},
			AmbientSFX: []string{"distant sirens", "wind gusts"},
			Particles:  []string{"embers", "dust"},
		}
	case StyleRealFilm:
		return EnvDetail{
			Sky:        Sky{Type: "overcast", Cloud: "flat stratus", Color: "neutral grey"},
			Lighting:   EnvLighting{ColorGrade: "neutral, subtle teal & orange"},
			Ground:     Ground{Material: "asphalt", Wetness: "damp", Reflection: "soft puddle reflections"},
			Flora:      []string{"street trees"},
			Fauna:      []string{"pigeons"},
			Props:      []string{"street lamp", "parked bicycle"},
			AmbientSFX: []string{"city hum", "footsteps"},
			Particles:  []string{"light drizzle"},
		}
	case StyleAnime:
		return EnvDetail{
			Sky:       Sky{Type: "clear afternoon", Cloud: "tall cumulus"},
			Flora:     []string{"cherry trees", "grass"},
			Props:     []string{"school bench", "bicycle"},
			Particles: []string{"sakura petals"},
		}
	}
	return EnvDetail{}
}

func presetStyleOf(style StyleKey) PresetStyle {
	switch style {
	case StyleMarvel:
		return PresetMarvel
	case StylePixar:
		return PresetPixar
	case StyleAnime:
		return PresetAnime
	case StyleRealFilm:
		return PresetRealistic
	}
	return PresetCartoon
}

// plan returns the per-scene durations and, in story mode, the beats.
func plan(req Request) (durations []int, beats []Beat) {
	if req.Beats > 0 {
		total := ClampTotal(req.TotalSeconds, MinStorySeconds, MaxStorySeconds)
		for i, sec := range WeightedBeats(req.Beats, total) {
			name := beatNames[i%len(beatNames)]
			if cycle := i / len(beatNames); cycle > 0 {
				name = fmt.Sprintf("%s %d", name, cycle+1)
			}
			beat := Beat{Name: name, Seconds: sec}
			for _, d := range SplitDurations(sec, MaxSceneSeconds) {
				durations = append(durations, d)
				beat.Scenes = append(beat.Scenes, len(durations))
			}
			beats = append(beats, beat)
		}
		return durations, beats
	}
	if req.Scenes > 0 {
		if req.Split {
			log.Warnf("explicit scene count %d given, split mode ignored", req.Scenes)
		}
		durations = make([]int, req.Scenes)
		for i := range durations {
			durations[i] = MaxSceneSeconds
		}
		return durations, nil
	}
	split := SplitDurations(ClampTotal(req.TotalSeconds, MinTotalSeconds, MaxTotalSeconds), MaxSceneSeconds)
	if req.Split {
		return split, nil
	}
	durations = make([]int, len(split))
	for i := range durations {
		durations[i] = MaxSceneSeconds
	}
	return durations, nil
}

// Assemble builds a draft document from req.
func Assemble(req Request, opts ...Option) (*Document, error) {
	a := &assembler{rand: rand.Reader, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	var preset *VisualPreset
	if req.Preset != "" {
		p, err := LookupPreset(req.Preset)
		if err != nil {
			return nil, err
		}
		preset = &p
		if req.Style == "" {
			req.Style = p.Style.StyleKey()
		}
	}
	profile, err := LookupStyle(req.Style)
	if err != nil {
		return nil, err
	}

	aspect := req.Aspect
	if aspect == "" {
		aspect = "16:9"
	}
	resolution := req.Resolution
	if resolution == "" {
		var ok bool
		if resolution, ok = aspectResolutions[aspect]; !ok {
			return nil, fmt.Errorf("unsupported aspect %q (valid: 16:9, 9:16, 1:1)", aspect)
		}
	}
	fps := req.FPS
	if fps <= 0 {
		fps = 24
	}
	lang := "id"
	if req.Language != "" {
		tag, err := language.Parse(req.Language)
		if err != nil {
			return nil, fmt.Errorf("invalid voiceover language %q: %w", req.Language, err)
		}
		lang = tag.String()
	}

	designID, err := a.uuid()
	if err != nil {
		return nil, err
	}
	seed, err := a.uuid()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:     constants.SCHEMA_VERSION,
		Schema:      constants.SCHEMA_PROMPT,
		Intent:      "cinematic storyboard for text-to-video generation",
		Title:       req.Title,
		Instruction: req.Instruction,
		CreatedAt:   a.now().UTC().Format(time.RFC3339),
		Consistency: Consistency{
			Lock:     true,
			DesignID: "design_" + designID,
			Seed:     strings.ReplaceAll(seed, "-", "")[:16],
			LookLock: LookLock{Face: true, Body: true, Clothes: true, Colors: true},
		},
		Global: Global{
			Style: GlobalStyle{
				Profile:     string(profile.Key),
				Hint:        StyleHint(presetStyleOf(profile.Key)),
				Grading:     profile.Grading,
				Palette:     profile.Palette,
				LensDefault: profile.LensDefault,
				CameraMood:  "motivated, smooth",
				Lighting:    fmt.Sprintf("%s, %s, %s", profile.Lighting.Key, profile.Lighting.Fill, profile.Lighting.Rim),
				MicroFX:     BuildMicroFX(profile.Key),
			},
			Audio: Audio{
				MixProfile:  req.MixProfile,
				MusicGlobal: profile.MusicGlobal,
				SFXGlobal:   profile.SFXGlobal,
				Voiceover:   Voiceover{Language: lang, Tone: "warm, expressive", Pace: "moderate"},
			},
			Output: Output{
				Resolution:    resolution,
				FPS:           fps,
				Aspect:        aspect,
				Container:     "mp4",
				AudioChannels: "stereo",
			},
		},
		Characters: []Character{},
	}
	if doc.Global.Audio.MixProfile == "" {
		doc.Global.Audio.MixProfile = "stereo, dialog-forward"
	}
	if req.SafeMode {
		doc.Global.Safety = Safety{Do: slices.Clone(safeSafety.Do), Dont: slices.Clone(safeSafety.Dont)}
	} else {
		doc.Global.Safety = Safety{Do: slices.Clone(openSafety.Do), Dont: slices.Clone(openSafety.Dont)}
	}
	if preset != nil {
		gs := &doc.Global.Style
		gs.Preset = preset.Key
		gs.Hint = StyleHint(preset.Style)
		gs.Palette = make([]Swatch, 0, len(preset.Palette))
		for i, c := range preset.Palette {
			gs.Palette = append(gs.Palette, Swatch{Name: fmt.Sprintf("p%d", i+1), Value: c})
		}
		if len(preset.Lenses) > 0 {
			gs.LensDefault = preset.Lenses[0] + "mm"
		}
		gs.Lighting = preset.Lighting
		gs.CameraMood = preset.CameraMood
	}

	for i, c := range req.Characters {
		if strings.TrimSpace(c.CharacterID) == "" {
			id, err := a.uuid()
			if err != nil {
				return nil, err
			}
			c.CharacterID = "char_" + id[:8]
		}
		if strings.TrimSpace(c.DisplayName) == "" {
			c.DisplayName = fmt.Sprintf("Character %d", i+1)
		}
		c.Anatomy = ptr(BuildAnatomy(deref(c.Anatomy)))
		c.Wardrobe = ptr(BuildWardrobe(deref(c.Wardrobe)))
		c.Physiology = ptr(BuildPhysiology(deref(c.Physiology)))
		doc.Characters = append(doc.Characters, c)
	}

	var names []string
	for _, name := range req.Locations {
		if name = strings.TrimSpace(name); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = []string{profile.Location}
	}
	for i, name := range names {
		doc.Locations = append(doc.Locations, Location{ID: fmt.Sprintf("L%02d", i+1), Name: name})
	}

	env := BuildEnvironment(styleEnvSeed(profile.Key))
	effects := []string{}
	for _, item := range req.Objects {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		switch item.Kind {
		case ItemFlora:
			env.Flora = append(env.Flora, item.Name)
		case ItemFauna:
			env.Fauna = append(env.Fauna, item.Name)
		case ItemEffect:
			effects = append(effects, item.Name)
		case ItemSFX:
			env.AmbientSFX = append(env.AmbientSFX, item.Name)
		case ItemParticle:
			env.Particles = append(env.Particles, item.Name)
		default:
			env.Props = append(env.Props, item.Name)
		}
	}

	durations, beats := plan(req)
	if beats != nil {
		doc.Schema = constants.SCHEMA_STORY
		for _, c := range doc.Characters {
			doc.Roster = append(doc.Roster, RosterEntry{ID: c.CharacterID, Name: c.DisplayName, Role: c.Role})
		}
	}
	n := len(durations)
	doc.Scenes = make([]Scene, 0, n)
	for i, seconds := range durations {
		index := i + 1
		name := SceneName(index, n)
		loc := doc.Locations[i%len(doc.Locations)]
		cam := cameraPresets[i%len(cameraPresets)]
		cam.Lens = profile.LensDefault
		if preset != nil && len(preset.Lenses) > 0 {
			cam.Lens = preset.Lenses[i%len(preset.Lenses)] + "mm"
		}
		scene := Scene{
			Index:      index,
			ID:         SceneID(index),
			Name:       name,
			Seconds:    seconds,
			LocationID: loc.ID,
			Continuity: Continuity{
				Characters: []CharacterRef{},
				LockNotes:  "keep face, body, outfit and colors identical to previous scenes",
			},
			Camera: cam,
			Environment: SceneEnvironment{
				Location:   loc.Name,
				Weather:    profile.Weather,
				Textures:   append(slices.Clone(profile.Textures), env.Ground.Material),
				Props:      slices.Clone(env.Props),
				Flora:      slices.Clone(env.Flora),
				Fauna:      slices.Clone(env.Fauna),
				Particles:  slices.Clone(env.Particles),
				AmbientSFX: slices.Clone(env.AmbientSFX),
				Effects:    slices.Clone(effects),
			},
			Lighting:     profile.Lighting,
			Action:       stageActions[stageOf(name)],
			Dialogue:     stageDialogues[stageOf(name)],
			MusicCue:     profile.MusicGlobal[i%len(profile.MusicGlobal)],
			SFX:          []string{profile.SFXGlobal[i%len(profile.SFXGlobal)]},
			MicroDetails: BuildMicroFX(profile.Key),
		}
		for _, c := range doc.Characters {
			scene.Continuity.Characters = append(scene.Continuity.Characters, CharacterRef{Ref: c.CharacterID, Visible: true})
		}
		if len(doc.Characters) > 0 {
			speaker := doc.Characters[i%len(doc.Characters)]
			scene.Speaker = speaker.CharacterID
			scene.Lipsync = "match dialogue phonemes of " + speaker.DisplayName
			scene.Expressions = "natural, consistent with character design"
		}
		doc.Scenes = append(doc.Scenes, scene)
	}
	if beats != nil {
		doc.Narrative = &Narrative{TotalSeconds: doc.TotalSeconds(), Beats: beats}
	}
	return doc, nil
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return v
}
