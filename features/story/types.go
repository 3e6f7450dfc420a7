package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"
)

// StyleKey selects a fixed style profile. See Styles.
type StyleKey string

const (
	StyleMarvel   StyleKey = "Marvel"
	StylePixar    StyleKey = "Pixar"
	StyleAnime    StyleKey = "Anime"
	StyleCartoon  StyleKey = "Cartoon"
	StyleRealFilm StyleKey = "Real Film"
)

// Document is the root LARAS JSON artifact describing a full storyboard.
type Document struct {
	Version     string      `json:"version" jsonschema:"required"`
	Schema      string      `json:"schema" jsonschema:"required,enum=laras.prompt,enum=laras.story"`
	Intent      string      `json:"intent,omitempty"`
	Title       string      `json:"title,omitempty"`
	Instruction string      `json:"instruction,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
	Consistency Consistency `json:"consistency"`
	Global      Global      `json:"global"`
	Characters  []Character `json:"characters"`
	// Roster is the alternative character list used by "laras.story" documents
	// and some enhanced outputs. Its ids are valid scene references as well.
	Roster    []RosterEntry `json:"roster,omitempty"`
	Narrative *Narrative    `json:"narrative,omitempty"`
	Locations []Location    `json:"locations,omitempty"`
	Scenes    []Scene       `json:"scenes" jsonschema:"required"`
}

type Consistency struct {
	Lock     bool     `json:"lock"`
	DesignID string   `json:"design_id"`
	Seed     string   `json:"seed"`
	LookLock LookLock `json:"look_lock"`
}

type LookLock struct {
	Face    bool `json:"face"`
	Body    bool `json:"body"`
	Clothes bool `json:"clothes"`
	Colors  bool `json:"colors"`
}

type Global struct {
	Style  GlobalStyle `json:"style"`
	Audio  Audio       `json:"audio"`
	Safety Safety      `json:"safety"`
	Output Output      `json:"output"`
}

type GlobalStyle struct {
	Profile     string   `json:"profile"`
	Preset      string   `json:"preset,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Grading     string   `json:"grading"`
	Palette     []Swatch `json:"palette"`
	LensDefault string   `json:"lens_default"`
	CameraMood  string   `json:"camera_mood,omitempty"`
	Lighting    string   `json:"lighting,omitempty"`
	MicroFX     []string `json:"micro_fx,omitempty"`
}

type Swatch struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Audio struct {
	MixProfile  string    `json:"mix_profile"`
	MusicGlobal []string  `json:"music_global"`
	SFXGlobal   []string  `json:"sfx_global"`
	Voiceover   Voiceover `json:"voiceover"`
}

type Voiceover struct {
	Language string `json:"language"`
	Tone     string `json:"tone"`
	Pace     string `json:"pace"`
}

type Safety struct {
	Do   []string `json:"do"`
	Dont []string `json:"dont"`
}

type Output struct {
	Resolution    string `json:"resolution"`
	FPS           int    `json:"fps"`
	Aspect        string `json:"aspect,omitempty"`
	Container     string `json:"container"`
	AudioChannels string `json:"audio_channels"`
}

// Character is a display entity. CharacterID is the consistency key across scenes
// and must not change once created.
type Character struct {
	CharacterID string            `json:"character_id" jsonschema:"required"`
	DisplayName string            `json:"display_name"`
	Role        string            `json:"role,omitempty"`
	Age         string            `json:"age,omitempty"`
	Gender      string            `json:"gender,omitempty"`
	Design      string            `json:"design,omitempty"`
	Look        string            `json:"look,omitempty"`
	Outfit      string            `json:"outfit,omitempty"`
	Voice       string            `json:"voice,omitempty"`
	Anatomy     *AnatomyDetail    `json:"anatomy,omitempty"`
	Wardrobe    *WardrobeDetail   `json:"wardrobe,omitempty"`
	Physiology  *PhysiologyDetail `json:"physiology,omitempty"`
	Bible       *Bible            `json:"bible,omitempty"`
}

type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type Narrative struct {
	TotalSeconds int    `json:"total_seconds"`
	Beats        []Beat `json:"beats,omitempty"`
}

// Beat is one pacing segment of a "laras.story" document. Scenes lists the
// indexes of the scenes the beat was split into.
type Beat struct {
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
	Scenes  []int  `json:"scenes"`
}

type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Scene is one segment (at most MaxSceneSeconds long) of the story.
type Scene struct {
	Index             int                `json:"index" jsonschema:"required,minimum=1"`
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Seconds           int                `json:"seconds" jsonschema:"required,minimum=1,maximum=8"`
	LocationID        string             `json:"location_id,omitempty"`
	Continuity        Continuity         `json:"continuity"`
	Camera            Camera             `json:"camera"`
	Environment       SceneEnvironment   `json:"environment"`
	Lighting          Lighting           `json:"lighting"`
	Action            string             `json:"action"`
	Expressions       string             `json:"expressions,omitempty"`
	Gestures          []string           `json:"gestures,omitempty"`
	Lipsync           string             `json:"lipsync,omitempty"`
	Speaker           string             `json:"speaker,omitempty"`
	Dialogue          string             `json:"dialogue"`
	MusicCue          string             `json:"music_cue"`
	SFX               []string           `json:"sfx"`
	MicroDetails      []string           `json:"micro_details"`
	Notes             string             `json:"notes,omitempty"`
	ContinuitySummary *ContinuitySummary `json:"continuity_summary,omitempty"`
}

type Continuity struct {
	Characters []CharacterRef `json:"characters"`
	LockNotes  string         `json:"lock_notes,omitempty"`
}

type CharacterRef struct {
	Ref     string `json:"ref"`
	Visible bool   `json:"visible"`
	Notes   string `json:"notes,omitempty"`
}

type ContinuitySummary struct {
	LockedIDs    []string `json:"locked_ids"`
	WardrobeLock bool     `json:"wardrobe_lock"`
	VoiceLock    bool     `json:"voice_lock"`
	GestureLock  bool     `json:"gesture_lock"`
	Note         string   `json:"note"`
}

type Camera struct {
	Angle    string `json:"angle"`
	Movement string `json:"movement"`
	Lens     string `json:"lens"`
	DOF      string `json:"dof"`
	Framing  string `json:"framing"`
}

type SceneEnvironment struct {
	Location   string   `json:"location"`
	Weather    string   `json:"weather"`
	Textures   []string `json:"textures"`
	Props      []string `json:"props"`
	Flora      []string `json:"flora,omitempty"`
	Fauna      []string `json:"fauna,omitempty"`
	Particles  []string `json:"particles,omitempty"`
	AmbientSFX []string `json:"ambient_sfx,omitempty"`
	Effects    []string `json:"effects,omitempty"`
}

type Lighting struct {
	Key        string `json:"key"`
	Fill       string `json:"fill"`
	Rim        string `json:"rim"`
	Volumetric bool   `json:"volumetric"`
}

// sceneAliases holds field names used by older variants and by models that
// drift from the schema. They only fill canonical fields left empty.
type sceneAliases struct {
	DurationSec int    `json:"durationSec"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Characters  []struct {
		Ref string `json:"ref"`
		ID  string `json:"id"`
	} `json:"characters"`
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	type plain Scene
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
		log.Debugf("scene field %s: %v", typeErr.Field, err)
	}
	var alias sceneAliases
	// aliases are best-effort: a type mismatch in them must not reject the scene
	_ = json.Unmarshal(data, &alias)
	if p.Seconds == 0 {
		p.Seconds = alias.DurationSec
	}
	if p.Name == "" {
		p.Name = alias.Title
	}
	if p.Notes == "" {
		p.Notes = alias.Description
	}
	if len(p.Continuity.Characters) == 0 {
		for _, c := range alias.Characters {
			ref := c.Ref
			if ref == "" {
				ref = c.ID
			}
			if ref != "" {
				p.Continuity.Characters = append(p.Continuity.Characters, CharacterRef{Ref: ref, Visible: true})
			}
		}
	}
	*s = Scene(p)
	return nil
}

// SceneID returns the zero-padded identifier of the scene at 1-based index, e.g. "S001".
func SceneID(index int) string {
	return fmt.Sprintf("S%03d", index)
}

// Refs returns the character ids referenced by the scene, in order.
func (s *Scene) Refs() []string {
	refs := make([]string, 0, len(s.Continuity.Characters))
	for _, c := range s.Continuity.Characters {
		refs = append(refs, c.Ref)
	}
	return refs
}

// RosterIDs returns every id a scene may reference: characters[].character_id and roster[].id,
// without repeating ids present in both.
func (d *Document) RosterIDs() []string {
	ids := make([]string, 0, len(d.Characters)+len(d.Roster))
	for _, c := range d.Characters {
		ids = append(ids, c.CharacterID)
	}
	for _, r := range d.Roster {
		if !slices.Contains(ids, r.ID) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Character returns the roster character with id, or nil.
func (d *Document) Character(id string) *Character {
	for i := range d.Characters {
		if d.Characters[i].CharacterID == id {
			return &d.Characters[i]
		}
	}
	return nil
}

// DisplayName returns the display name of character id. Roster entries are
// consulted too. If nothing matches, id itself is returned.
func (d *Document) DisplayName(id string) string {
	if c := d.Character(id); c != nil && c.DisplayName != "" {
		return c.DisplayName
	}
	for _, r := range d.Roster {
		if r.ID == id && r.Name != "" {
			return r.Name
		}
	}
	return id
}

func (d *Document) TotalSeconds() (total int) {
	for _, s := range d.Scenes {
		total += s.Seconds
	}
	return total
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("story: clone marshal: %v", err))
	}
	var c Document
	if err := json.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("story: clone unmarshal: %v", err))
	}
	return &c
}

// SceneView returns a single-scene sub-document of the scene at position i (0-based):
// the global blocks, the characters and location the scene references, and the scene itself.
func (d *Document) SceneView(i int) (*Document, error) {
	if i < 0 || i >= len(d.Scenes) {
		return nil, fmt.Errorf("scene %d out of range [1, %d]", i+1, len(d.Scenes))
	}
	c := d.Clone()
	scene := c.Scenes[i]
	refs := scene.Refs()
	c.Characters = slices.DeleteFunc(c.Characters, func(ch Character) bool {
		return !slices.Contains(refs, ch.CharacterID)
	})
	c.Roster = slices.DeleteFunc(c.Roster, func(r RosterEntry) bool {
		return !slices.Contains(refs, r.ID)
	})
	c.Locations = slices.DeleteFunc(c.Locations, func(l Location) bool {
		return l.ID != scene.LocationID
	})
	c.Scenes = []Scene{scene}
	c.Narrative = &Narrative{TotalSeconds: scene.Seconds}
	return c, nil
}

// DecodeDocument decodes a LARAS JSON document, accepting the field aliases
// produced by older variants ("durationSec", "title", scene-level "characters").
// Fields of the wrong type are skipped with a warning; malformed JSON is an error.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("invalid story document: %w", err)
		}
		// mistyped fields are left zero, the validator reports what matters
		log.Warnf("story document: %v", err)
	}
	return &doc, nil
}

// DecodeValue decodes an already parsed JSON value (e.g. map[string]any) as a Document.
func DecodeValue(v any) (*Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data)
}
