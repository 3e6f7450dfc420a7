package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/sagan/laras/constants"
)

var fixedClock = func() time.Time {
	return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
}

func seededOptions(seed uint64) []Option {
	var key [32]byte
	key[0] = byte(seed)
	return []Option{WithRand(rand.NewChaCha8(key)), WithClock(fixedClock)}
}

func TestAssembleMarvelThreeScenes(t *testing.T) {
	doc, err := Assemble(Request{Title: "Rooftop", Style: StyleMarvel, Scenes: 3}, seededOptions(1)...)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := len(doc.Scenes); got != 3 {
		t.Fatalf("len(scenes) = %d, want 3", got)
	}
	if doc.Scenes[0].Name != "Intro" {
		t.Errorf("scenes[0].name = %q, want Intro", doc.Scenes[0].Name)
	}
	if doc.Scenes[2].Name != "Outro" {
		t.Errorf("scenes[2].name = %q, want Outro", doc.Scenes[2].Name)
	}
	if doc.Global.Style.Profile != "Marvel" {
		t.Errorf("global.style.profile = %q, want Marvel", doc.Global.Style.Profile)
	}
	if doc.Global.Style.LensDefault != "anamorphic 40mm" {
		t.Errorf("lens_default = %q", doc.Global.Style.LensDefault)
	}
	if doc.Schema != constants.SCHEMA_PROMPT {
		t.Errorf("schema = %q, want %q", doc.Schema, constants.SCHEMA_PROMPT)
	}
	for i, s := range doc.Scenes {
		if s.Index != i+1 || s.ID != SceneID(i+1) || s.Seconds != MaxSceneSeconds {
			t.Errorf("scene %d = {index %d, id %q, seconds %d}", i, s.Index, s.ID, s.Seconds)
		}
	}
	if doc.CreatedAt != "2025-03-01T10:00:00Z" {
		t.Errorf("created_at = %q", doc.CreatedAt)
	}
	if r := Validate(doc, 3); !r.OK {
		t.Errorf("assembled document is not valid: %v", r.Issues)
	}
}

func TestAssembleSceneCountFromTotal(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		seconds []int
	}{
		{"strict", Request{Style: StyleCartoon, TotalSeconds: 60}, []int{8, 8, 8, 8, 8, 8, 8, 8}},
		{"split", Request{Style: StyleCartoon, TotalSeconds: 20, Split: true}, []int{8, 8, 4}},
		{"clamped to minimum", Request{Style: StyleCartoon}, []int{8}},
		{"explicit count wins", Request{Style: StyleCartoon, TotalSeconds: 60, Scenes: 2, Split: true}, []int{8, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Assemble(tt.req, seededOptions(2)...)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if len(doc.Scenes) != len(tt.seconds) {
				t.Fatalf("len(scenes) = %d, want %d", len(doc.Scenes), len(tt.seconds))
			}
			for i, s := range doc.Scenes {
				if s.Seconds != tt.seconds[i] {
					t.Errorf("scenes[%d].seconds = %d, want %d", i, s.Seconds, tt.seconds[i])
				}
			}
		})
	}
}

func TestAssembleSplitDraftValidates(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"split remainder", Request{Style: StyleCartoon, TotalSeconds: 60, Split: true}},
		{"split exact", Request{Style: StyleAnime, TotalSeconds: 24, Split: true}},
		{"strict", Request{Style: StyleCartoon, TotalSeconds: 60}},
		{"explicit count with split", Request{Style: StyleCartoon, TotalSeconds: 60, Scenes: 3, Split: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Assemble(tt.req, seededOptions(5)...)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if r := Validate(doc, len(doc.Scenes), tt.req.ValidateOptions()...); !r.OK {
				t.Errorf("assembled draft has issues: %v", r.Issues)
			}
		})
	}

	req := Request{Style: StyleCartoon, TotalSeconds: 60, Split: true}
	doc, err := Assemble(req, seededOptions(5)...)
	if err != nil {
		t.Fatal(err)
	}
	if last := doc.Scenes[len(doc.Scenes)-1]; last.Seconds != 4 {
		t.Fatalf("last scene lasts %ds, want 4", last.Seconds)
	}
	if r := Validate(doc, len(doc.Scenes)); !r.Has(IssueDuration) {
		t.Errorf("split remainder not flagged without options")
	}
}

func TestAssembleStageDialogue(t *testing.T) {
	doc, err := Assemble(Request{Style: StylePixar, Scenes: 3}, seededOptions(6)...)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range doc.Scenes {
		if s.Dialogue == "" {
			t.Errorf("scene %s has no dialogue", s.ID)
		}
		if want := stageDialogues[stageOf(s.Name)]; s.Dialogue != want {
			t.Errorf("scene %s (%s) dialogue = %q, want %q", s.ID, s.Name, s.Dialogue, want)
		}
	}
	if doc.Scenes[0].Dialogue == doc.Scenes[2].Dialogue {
		t.Errorf("intro and outro share dialogue %q", doc.Scenes[0].Dialogue)
	}
}

func TestAssembleSingleSceneIsIntro(t *testing.T) {
	doc, err := Assemble(Request{Style: StylePixar, Scenes: 1}, seededOptions(3)...)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Scenes[0].Name != "Intro" {
		t.Errorf("single scene name = %q, want Intro", doc.Scenes[0].Name)
	}
}

func TestSceneName(t *testing.T) {
	tests := []struct {
		i, n int
		want string
	}{
		{1, 10, "Intro"},
		{10, 10, "Outro"},
		{2, 10, "Build"},
		{6, 10, "Resolution"},
		{7, 10, "Build 2"},
		{9, 10, "Midpoint 2"},
		{1, 1, "Intro"},
	}
	for _, tt := range tests {
		if got := SceneName(tt.i, tt.n); got != tt.want {
			t.Errorf("SceneName(%d, %d) = %q, want %q", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestAssembleUnknownStyle(t *testing.T) {
	for _, style := range []StyleKey{"", "Noir", "marvel"} {
		_, err := Assemble(Request{Style: style, Scenes: 2}, seededOptions(4)...)
		if !errors.Is(err, ErrUnknownStyle) {
			t.Errorf("Assemble(style %q) error = %v, want ErrUnknownStyle", style, err)
		}
	}
}

func TestAssembleUnknownPreset(t *testing.T) {
	_, err := Assemble(Request{Style: StylePixar, Preset: "nope", Scenes: 2})
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}
}

func TestAssemblePresetOverrides(t *testing.T) {
	doc, err := Assemble(Request{Preset: "marvel_cosmic", Scenes: 4}, seededOptions(5)...)
	if err != nil {
		t.Fatal(err)
	}
	gs := doc.Global.Style
	if gs.Profile != "Marvel" {
		t.Errorf("profile = %q, want Marvel from preset", gs.Profile)
	}
	if gs.Preset != "marvel_cosmic" || gs.CameraMood != "fast crane + orbit" || gs.Lighting != "colorful gels, bloom highlights" {
		t.Errorf("preset not applied: %+v", gs)
	}
	if len(gs.Palette) != 5 || gs.Palette[0].Value != "#7c3aed" {
		t.Errorf("palette = %v", gs.Palette)
	}
	if doc.Scenes[0].Camera.Lens != "18mm" || doc.Scenes[1].Camera.Lens != "28mm" || doc.Scenes[3].Camera.Lens != "18mm" {
		t.Errorf("lenses = %q %q %q", doc.Scenes[0].Camera.Lens, doc.Scenes[1].Camera.Lens, doc.Scenes[3].Camera.Lens)
	}
}

func TestAssembleCharactersAndReferences(t *testing.T) {
	req := Request{
		Style:  StylePixar,
		Scenes: 4,
		Characters: []Character{
			{CharacterID: "kiko", DisplayName: "Kiko"},
			{DisplayName: "Mama"},
			{},
		},
		Objects: []Item{
			{Kind: ItemProp, Name: "red kite"},
			{Kind: ItemFauna, Name: "giraffe"},
			{Kind: ItemEffect, Name: "confetti"},
			{Kind: "weird", Name: "mystery box"},
			{Kind: ItemFlora, Name: " "},
		},
		Locations: []string{"zoo gate", "zoo gate", "giraffe house"},
	}
	doc, err := Assemble(req, seededOptions(6)...)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Characters) != 3 {
		t.Fatalf("len(characters) = %d", len(doc.Characters))
	}
	if doc.Characters[0].CharacterID != "kiko" {
		t.Errorf("explicit id replaced: %q", doc.Characters[0].CharacterID)
	}
	for _, c := range doc.Characters[1:] {
		if !strings.HasPrefix(c.CharacterID, "char_") || len(c.CharacterID) != len("char_")+8 {
			t.Errorf("generated id = %q", c.CharacterID)
		}
		if c.Anatomy == nil || c.Anatomy.HeightCM != 120 || c.Wardrobe == nil || c.Physiology == nil {
			t.Errorf("character %q missing detail defaults", c.CharacterID)
		}
	}
	if doc.Characters[2].DisplayName != "Character 3" {
		t.Errorf("default display name = %q", doc.Characters[2].DisplayName)
	}
	if len(doc.Locations) != 2 || doc.Locations[0].ID != "L01" || doc.Locations[1].Name != "giraffe house" {
		t.Errorf("locations = %+v", doc.Locations)
	}
	env := doc.Scenes[0].Environment
	for _, want := range []string{"red kite", "mystery box"} {
		if !contains(env.Props, want) {
			t.Errorf("props %v missing %q", env.Props, want)
		}
	}
	if !contains(env.Fauna, "giraffe") || !contains(env.Effects, "confetti") {
		t.Errorf("environment items not flattened: %+v", env)
	}
	if doc.Scenes[1].LocationID != "L02" || doc.Scenes[2].LocationID != "L01" {
		t.Errorf("location round robin = %q %q", doc.Scenes[1].LocationID, doc.Scenes[2].LocationID)
	}
	if doc.Scenes[1].Speaker != doc.Characters[1].CharacterID {
		t.Errorf("speaker = %q", doc.Scenes[1].Speaker)
	}
	if r := Validate(doc, 4); !r.OK {
		t.Errorf("issues: %v", r.Issues)
	}
}

func TestAssembleEmptyCharacters(t *testing.T) {
	doc, err := Assemble(Request{Style: StyleAnime, Scenes: 2}, seededOptions(7)...)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Characters == nil || len(doc.Characters) != 0 {
		t.Errorf("characters = %v, want empty list", doc.Characters)
	}
	for _, s := range doc.Scenes {
		if len(s.Continuity.Characters) != 0 || s.Speaker != "" {
			t.Errorf("scene %s has continuity %v", s.ID, s.Continuity.Characters)
		}
	}
	data, _ := json.Marshal(doc)
	if !bytes.Contains(data, []byte(`"characters":[]`)) {
		t.Errorf("characters should serialize as an empty list")
	}
}

func TestAssembleSafety(t *testing.T) {
	safe, _ := Assemble(Request{Style: StyleCartoon, Scenes: 1, SafeMode: true}, seededOptions(8)...)
	open, _ := Assemble(Request{Style: StyleCartoon, Scenes: 1}, seededOptions(8)...)
	if !contains(safe.Global.Safety.Do, "family-friendly content") {
		t.Errorf("safe mode do = %v", safe.Global.Safety.Do)
	}
	if contains(open.Global.Safety.Do, "family-friendly content") {
		t.Errorf("open mode do = %v", open.Global.Safety.Do)
	}
}

func TestAssembleOutputAndLanguage(t *testing.T) {
	doc, err := Assemble(Request{Style: StyleRealFilm, Scenes: 2, Aspect: "9:16", Language: "en-us"}, seededOptions(9)...)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Global.Output.Resolution != "1080x1920" || doc.Global.Output.FPS != 24 {
		t.Errorf("output = %+v", doc.Global.Output)
	}
	if doc.Global.Audio.Voiceover.Language != "en-US" {
		t.Errorf("language = %q, want canonical en-US", doc.Global.Audio.Voiceover.Language)
	}
	if _, err := Assemble(Request{Style: StyleRealFilm, Scenes: 2, Aspect: "4:3"}); err == nil {
		t.Error("expected error for unsupported aspect")
	}
	if _, err := Assemble(Request{Style: StyleRealFilm, Scenes: 2, Language: "not a tag!"}); err == nil {
		t.Error("expected error for invalid language")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	req := DefaultRequest()
	req.Characters = []Character{{DisplayName: "Kiko"}}
	a, err := Assemble(req, seededOptions(10)...)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Assemble(req, seededOptions(10)...)
	if err != nil {
		t.Fatal(err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if !bytes.Equal(ja, jb) {
		t.Error("same rand and clock produced different documents")
	}
	c, _ := Assemble(req, seededOptions(11)...)
	if c.Consistency.DesignID == a.Consistency.DesignID {
		t.Error("different rand produced the same design_id")
	}
}

func TestAssembleStoryMode(t *testing.T) {
	doc, err := Assemble(Request{Style: StylePixar, Beats: 6, TotalSeconds: 60, Characters: []Character{{CharacterID: "kiko"}}}, seededOptions(12)...)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Schema != constants.SCHEMA_STORY {
		t.Errorf("schema = %q", doc.Schema)
	}
	if doc.Narrative == nil || len(doc.Narrative.Beats) != 6 {
		t.Fatalf("narrative = %+v", doc.Narrative)
	}
	if doc.Narrative.TotalSeconds != 60 {
		t.Errorf("total_seconds = %d, want 60", doc.Narrative.TotalSeconds)
	}
	// beats are 7, 11, 12, 12, 11, 7 seconds; the 11s beat becomes scenes 2 (8s) and 3 (3s)
	if got := doc.Narrative.Beats[1].Scenes; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("beat 2 scenes = %v", got)
	}
	if len(doc.Roster) != 1 || doc.Roster[0].ID != "kiko" {
		t.Errorf("roster = %v", doc.Roster)
	}
	if r := Validate(doc, 0); !r.OK {
		t.Errorf("issues: %v", r.Issues)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc, err := Assemble(Request{Style: StyleAnime, Scenes: 3, Characters: []Character{{DisplayName: "Aoi"}}}, seededOptions(13)...)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := json.Marshal(back)
	if !bytes.Equal(data, again) {
		t.Errorf("round trip mismatch:\n%s\n%s", data, again)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
