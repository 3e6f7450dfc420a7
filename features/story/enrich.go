package story

import (
	"fmt"
)

type HairStrand struct {
	ID          string  `json:"id"`
	LengthMM    float64 `json:"length_mm"`
	ThicknessMM float64 `json:"thickness_mm"`
	Direction   string  `json:"direction"`
	Color       string  `json:"color"`
	Reflection  string  `json:"reflection"`
	Movement    string  `json:"movement"`
}

type ClothThread struct {
	ID       string  `json:"id"`
	Material string  `json:"material"`
	Gauge    float64 `json:"gauge"`
	Color    string  `json:"color"`
	Tension  float64 `json:"tension"`
	Stitch   string  `json:"stitch"`
}

type GarmentThreads struct {
	Garment string        `json:"garment"`
	Threads []ClothThread `json:"threads"`
}

type ShoeStitch struct {
	ID          string  `json:"id"`
	Seam        string  `json:"seam"`
	LengthMM    float64 `json:"length_mm"`
	ThreadColor string  `json:"thread_color"`
	SpacingMM   float64 `json:"spacing_mm"`
}

// Bible is the micro-level detail attached to a character to lock its look across generations.
type Bible struct {
	HairStrands  []HairStrand     `json:"hair_strands"`
	ClothThreads []GarmentThreads `json:"cloth_threads,omitempty"`
	ShoeStitches []ShoeStitch     `json:"shoe_stitches,omitempty"`
}

type EnrichOptions struct {
	HairStrands  int
	ClothThreads int
	ShoeStitches int
	Seed         string
	// SkipContinuity leaves scenes without continuity_summary.
	SkipContinuity bool
}

func DefaultEnrichOptions() EnrichOptions {
	return EnrichOptions{
		HairStrands:  1200,
		ClothThreads: 1800,
		ShoeStitches: 400,
		Seed:         "enrich_default",
	}
}

// EnrichBible returns a deep copy of doc with a Bible attached to every character
// and a continuity summary attached to every scene. The output only depends on doc and opts.
func EnrichBible(doc *Document, opts EnrichOptions) *Document {
	if opts.Seed == "" {
		opts.Seed = DefaultEnrichOptions().Seed
	}
	rand := NewSeededRand(opts.Seed)
	out := doc.Clone()
	for i := range out.Characters {
		enrichCharacter(&out.Characters[i], i, rand, opts)
	}
	if !opts.SkipContinuity {
		for i := range out.Scenes {
			ids := []string{}
			for _, ref := range out.Scenes[i].Refs() {
				if ref != "" {
					ids = append(ids, ref)
				}
			}
			out.Scenes[i].ContinuitySummary = &ContinuitySummary{
				LockedIDs:    ids,
				WardrobeLock: true,
				VoiceLock:    true,
				GestureLock:  true,
				Note:         fmt.Sprintf("Continuity enforced for scene %d", i+1),
			}
		}
	}
	return out
}

func enrichCharacter(ch *Character, idx int, rand func() float64, opts EnrichOptions) {
	baseID := ch.CharacterID
	if baseID == "" {
		baseID = fmt.Sprintf("char_%d", idx)
	}
	bible := &Bible{HairStrands: make([]HairStrand, 0, max(opts.HairStrands, 0))}
	for i := 1; i <= opts.HairStrands; i++ {
		bible.HairStrands = append(bible.HairStrands, HairStrand{
			ID:          fmt.Sprintf("%s_strand_%04d", baseID, i),
			LengthMM:    round(40+rand()*25, 2),
			ThicknessMM: round(0.05+rand()*0.04, 3),
			Direction:   pickOne(rand, "forward", "back", "left", "right", "forward-left", "forward-right", "up-then-forward"),
			Color:       pickOne(rand, "black", "black-brown", "dark-brown", "brown-with-copper"),
			Reflection:  pickOne(rand, "matte", "soft-sheen", "silky", "golden-shimmer", "silver-hint"),
			Movement:    pickOne(rand, "stable", "light-sway", "micro-vibration", "soft-bounce", "elastic-recoil"),
		})
	}
	if w := ch.Wardrobe; w != nil {
		for _, g := range []struct {
			name    string
			garment Garment
		}{{"top", w.Top}, {"bottom", w.Bottom}} {
			if g.garment.Type == "" {
				continue
			}
			color := g.garment.Color
			if color == "" {
				color = "#222"
			}
			gt := GarmentThreads{Garment: g.name, Threads: make([]ClothThread, 0, max(opts.ClothThreads, 0))}
			for i := 1; i <= opts.ClothThreads; i++ {
				gt.Threads = append(gt.Threads, ClothThread{
					ID:       fmt.Sprintf("%s_clothing_%s_thread_%05d", baseID, g.name, i),
					Material: pickOne(rand, "cotton", "denim", "wool", "polyester", "linen"),
					Gauge:    round(0.2+rand()*0.5, 2),
					Color:    pickOne(rand, color, "#111", "#333", "#444"),
					Tension:  round(0.5+rand()*0.5, 2),
					Stitch:   pickOne(rand, "lockstitch", "chainstitch", "zigzag", "overlock"),
				})
			}
			bible.ClothThreads = append(bible.ClothThreads, gt)
		}
		if shoes := w.Footwear; shoes.Type != "" {
			color := shoes.Color
			if color == "" {
				color = "#111"
			}
			for i := 1; i <= opts.ShoeStitches; i++ {
				bible.ShoeStitches = append(bible.ShoeStitches, ShoeStitch{
					ID:          fmt.Sprintf("%s_shoe_stitch_%04d", baseID, i),
					Seam:        pickOne(rand, "upper", "quarter", "counter", "vamp", "toe-cap", "foxing"),
					LengthMM:    round(2+rand()*6, 2),
					ThreadColor: pickOne(rand, "#000", "#222", "#555", color),
					SpacingMM:   round(0.8+rand()*1.5, 2),
				})
			}
		}
	}
	ch.Bible = bible
}

// CharacterBible is the persisted identity of a story: its consistency block and cast.
type CharacterBible struct {
	Consistency Consistency   `json:"consistency"`
	Characters  []Character   `json:"characters"`
	Roster      []RosterEntry `json:"roster,omitempty"`
}

// NewCharacterBible extracts the character bible of doc.
func NewCharacterBible(doc *Document) *CharacterBible {
	c := doc.Clone()
	return &CharacterBible{Consistency: c.Consistency, Characters: c.Characters, Roster: c.Roster}
}
