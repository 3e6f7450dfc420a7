package story

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNewSeededRandDeterministic(t *testing.T) {
	a, b := NewSeededRand("enrich_default"), NewSeededRand("enrich_default")
	c := NewSeededRand("other")
	same := true
	for range 100 {
		x, y, z := a(), b(), c()
		if x != y {
			t.Fatalf("same seed diverged: %v != %v", x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("value %v out of [0, 1)", x)
		}
		if x != z {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced the same sequence")
	}
}

func TestRound(t *testing.T) {
	if got := round(40.123456, 2); math.Abs(got-40.12) > 1e-9 {
		t.Errorf("round(40.123456, 2) = %v", got)
	}
	if got := round(0.0625, 3); got != 0.063 {
		t.Errorf("round(0.0625, 3) = %v", got)
	}
}

func enrichFixture() *Document {
	w := BuildWardrobe(WardrobeDetail{})
	return &Document{
		Schema: "laras.prompt",
		Characters: []Character{
			{CharacterID: "kiko", Wardrobe: &w},
			{},
		},
		Scenes: []Scene{
			{Index: 1, ID: "S001", Continuity: Continuity{Characters: []CharacterRef{{Ref: "kiko"}, {Ref: ""}}}},
			{Index: 2, ID: "S002"},
		},
	}
}

func TestEnrichBible(t *testing.T) {
	src := enrichFixture()
	opts := EnrichOptions{HairStrands: 12, ClothThreads: 7, ShoeStitches: 5, Seed: "s1"}
	out := EnrichBible(src, opts)

	if src.Characters[0].Bible != nil || src.Scenes[0].ContinuitySummary != nil {
		t.Fatal("EnrichBible modified its input")
	}
	kiko := out.Characters[0].Bible
	if kiko == nil || len(kiko.HairStrands) != 12 {
		t.Fatalf("hair strands = %+v", kiko)
	}
	if kiko.HairStrands[0].ID != "kiko_strand_0001" || kiko.HairStrands[11].ID != "kiko_strand_0012" {
		t.Errorf("strand ids = %q .. %q", kiko.HairStrands[0].ID, kiko.HairStrands[11].ID)
	}
	for _, s := range kiko.HairStrands {
		if s.LengthMM < 40 || s.LengthMM > 65 || s.ThicknessMM < 0.05 || s.ThicknessMM > 0.09 {
			t.Errorf("strand out of range: %+v", s)
		}
	}
	if len(kiko.ClothThreads) != 2 || len(kiko.ClothThreads[0].Threads) != 7 {
		t.Fatalf("cloth threads = %+v", kiko.ClothThreads)
	}
	if id := kiko.ClothThreads[1].Threads[0].ID; id != "kiko_clothing_bottom_thread_00001" {
		t.Errorf("thread id = %q", id)
	}
	if len(kiko.ShoeStitches) != 5 || kiko.ShoeStitches[4].ID != "kiko_shoe_stitch_0005" {
		t.Errorf("shoe stitches = %+v", kiko.ShoeStitches)
	}

	second := out.Characters[1].Bible
	if second == nil || second.HairStrands[0].ID != "char_1_strand_0001" {
		t.Errorf("fallback id not used: %+v", second)
	}
	if len(second.ClothThreads) != 0 || len(second.ShoeStitches) != 0 {
		t.Error("character without wardrobe got cloth detail")
	}

	cs := out.Scenes[0].ContinuitySummary
	if cs == nil || len(cs.LockedIDs) != 1 || cs.LockedIDs[0] != "kiko" || !cs.WardrobeLock {
		t.Errorf("continuity summary = %+v", cs)
	}
	if out.Scenes[1].ContinuitySummary.Note != "Continuity enforced for scene 2" {
		t.Errorf("note = %q", out.Scenes[1].ContinuitySummary.Note)
	}

	again, _ := json.Marshal(EnrichBible(src, opts))
	first, _ := json.Marshal(out)
	if string(again) != string(first) {
		t.Error("EnrichBible is not deterministic")
	}
}

func TestEnrichBibleSkipContinuity(t *testing.T) {
	out := EnrichBible(enrichFixture(), EnrichOptions{SkipContinuity: true})
	if out.Scenes[0].ContinuitySummary != nil {
		t.Error("continuity attached despite SkipContinuity")
	}
	if n := len(out.Characters[0].Bible.HairStrands); n != 0 {
		t.Errorf("zero counts produced %d strands", n)
	}
}

func TestNewCharacterBible(t *testing.T) {
	d := validDoc()
	d.Consistency.DesignID = "design_x"
	b := NewCharacterBible(d)
	if b.Consistency.DesignID != "design_x" || len(b.Characters) != 1 {
		t.Errorf("bible = %+v", b)
	}
	b.Characters[0].DisplayName = "changed"
	if d.Characters[0].DisplayName != "Kiko" {
		t.Error("bible shares memory with document")
	}
}
