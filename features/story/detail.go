package story

import (
	"slices"
	"strings"
)

// Ultra-detail records. Every leaf is optional on input; the Build* functions
// fill what is missing. Empty or whitespace-only strings count as missing,
// a nil list is missing but an empty non-nil list is kept as is.

type AnatomyDetail struct {
	HeightCM         int    `json:"height_cm,omitempty"`
	BodyType         string `json:"body_type,omitempty"`
	SkinTone         string `json:"skin_tone,omitempty"`
	Facial           Facial `json:"facial"`
	Hair             Hair   `json:"hair"`
	Hands            Hands  `json:"hands"`
	Feet             Feet   `json:"feet"`
	MuscleDefinition string `json:"muscle_definition,omitempty"`
	CurvatureDetail  string `json:"curvature_detail,omitempty"`
}

type Facial struct {
	Eyes     Eyes     `json:"eyes"`
	Eyebrows Eyebrows `json:"eyebrows"`
	Nose     Nose     `json:"nose"`
	Mouth    Mouth    `json:"mouth"`
	Jawline  string   `json:"jawline,omitempty"`
	Cheek    string   `json:"cheek,omitempty"`
	Ear      Ear      `json:"ear"`
}

type Eyes struct {
	Shape      string `json:"shape,omitempty"`
	IrisColor  string `json:"iris_color,omitempty"`
	PupilShape string `json:"pupil_shape,omitempty"`
	ScleraTint string `json:"sclera_tint,omitempty"`
	Eyelashes  string `json:"eyelashes,omitempty"`
}

type Eyebrows struct {
	Shape     string `json:"shape,omitempty"`
	Thickness string `json:"thickness,omitempty"`
	Density   string `json:"density,omitempty"`
}

type Nose struct {
	Shape   string `json:"shape,omitempty"`
	Bridge  string `json:"bridge,omitempty"`
	Nostril string `json:"nostril,omitempty"`
}

type Mouth struct {
	LipShape string `json:"lip_shape,omitempty"`
	Teeth    string `json:"teeth,omitempty"`
	Tongue   string `json:"tongue,omitempty"`
}

type Ear struct {
	Shape string `json:"shape,omitempty"`
	Lobe  string `json:"lobe,omitempty"`
	Helix string `json:"helix,omitempty"`
}

type Hair struct {
	Style        string `json:"style,omitempty"`
	Length       string `json:"length,omitempty"`
	Color        string `json:"color,omitempty"`
	StrandDetail string `json:"strand_detail,omitempty"`
	Dynamics     string `json:"dynamics,omitempty"`
}

type Hands struct {
	Fingernails      string `json:"fingernails,omitempty"`
	KnuckleDetail    string `json:"knuckle_detail,omitempty"`
	FingerProportion string `json:"finger_proportion,omitempty"`
}

type Feet struct {
	Toenails    string `json:"toenails,omitempty"`
	AnkleDetail string `json:"ankle_detail,omitempty"`
}

type WardrobeDetail struct {
	Top         Garment  `json:"top"`
	Bottom      Garment  `json:"bottom"`
	Footwear    Footwear `json:"footwear"`
	Accessories []string `json:"accessories"`
}

// Garment is a top or bottom piece. Trim applies to tops, Hem to bottoms.
type Garment struct {
	Type        string `json:"type,omitempty"`
	Color       string `json:"color,omitempty"`
	ColorDetail string `json:"color_detail,omitempty"`
	Material    string `json:"material,omitempty"`
	Texture     string `json:"texture,omitempty"`
	Fit         string `json:"fit,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Trim        string `json:"trim,omitempty"`
	Hem         string `json:"hem,omitempty"`
}

type Footwear struct {
	Type     string `json:"type,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
	Sole     string `json:"sole,omitempty"`
	Laces    string `json:"laces,omitempty"`
}

type PhysiologyDetail struct {
	Breathing   Breathing `json:"breathing"`
	Gait        Gait      `json:"gait"`
	Speech      Speech    `json:"speech"`
	MicroFacial []string  `json:"micro_facial"`
	ClothSim    string    `json:"cloth_sim,omitempty"`
}

type Breathing struct {
	Style       string `json:"style,omitempty"`
	Cadence     string `json:"cadence,omitempty"`
	ChestMotion string `json:"chest_motion,omitempty"`
}

type Gait struct {
	Style      string `json:"style,omitempty"`
	Cadence    string `json:"cadence,omitempty"`
	FootImpact string `json:"foot_impact,omitempty"`
	HipShift   string `json:"hip_shift,omitempty"`
}

type Speech struct {
	Style        string `json:"style,omitempty"`
	Articulation string `json:"articulation,omitempty"`
	Speed        string `json:"speed,omitempty"`
	Warmth       string `json:"warmth,omitempty"`
}

type EnvDetail struct {
	Sky        Sky         `json:"sky"`
	Air        Air         `json:"air"`
	Lighting   EnvLighting `json:"lighting"`
	Ground     Ground      `json:"ground"`
	Flora      []string    `json:"flora"`
	Fauna      []string    `json:"fauna"`
	Props      []string    `json:"props"`
	AmbientSFX []string    `json:"ambient_sfx"`
	Particles  []string    `json:"particles"`
}

type Sky struct {
	Type     string `json:"type,omitempty"`
	Cloud    string `json:"cloud,omitempty"`
	Color    string `json:"color,omitempty"`
	SunAngle string `json:"sun_angle,omitempty"`
	Haze     string `json:"haze,omitempty"`
}

type Air struct {
	Dust     string `json:"dust,omitempty"`
	Pollen   string `json:"pollen,omitempty"`
	Moisture string `json:"moisture,omitempty"`
}

type EnvLighting struct {
	Key        string `json:"key,omitempty"`
	Fill       string `json:"fill,omitempty"`
	Rim        string `json:"rim,omitempty"`
	Volumetric string `json:"volumetric,omitempty"`
	Bounce     string `json:"bounce,omitempty"`
	ColorGrade string `json:"color_grade,omitempty"`
}

type Ground struct {
	Material   string `json:"material,omitempty"`
	Wetness    string `json:"wetness,omitempty"`
	Reflection string `json:"reflection,omitempty"`
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func orList(v []string, fallback ...string) []string {
	if v == nil {
		return slices.Clone(fallback)
	}
	return v
}

func BuildAnatomy(seed AnatomyDetail) AnatomyDetail {
	height := seed.HeightCM
	if height <= 0 {
		height = 120
	}
	f := seed.Facial
	return AnatomyDetail{
		HeightCM: height,
		BodyType: or(seed.BodyType, "child-proportion, soft anatomy"),
		SkinTone: or(seed.SkinTone, "#F6C89F"),
		Facial: Facial{
			Eyes: Eyes{
				Shape:      or(f.Eyes.Shape, "large round"),
				IrisColor:  or(f.Eyes.IrisColor, "green vibrant"),
				PupilShape: or(f.Eyes.PupilShape, "round"),
				ScleraTint: or(f.Eyes.ScleraTint, "clean white"),
				Eyelashes:  or(f.Eyes.Eyelashes, "subtle short"),
			},
			Eyebrows: Eyebrows{
				Shape:     or(f.Eyebrows.Shape, "soft arc"),
				Thickness: or(f.Eyebrows.Thickness, "light"),
				Density:   or(f.Eyebrows.Density, "even"),
			},
			Nose: Nose{
				Shape:   or(f.Nose.Shape, "small cute"),
				Bridge:  or(f.Nose.Bridge, "soft"),
				Nostril: or(f.Nose.Nostril, "small rounded"),
			},
			Mouth: Mouth{
				LipShape: or(f.Mouth.LipShape, "soft heart"),
				Teeth:    or(f.Mouth.Teeth, "clean small, even spacing"),
				Tongue:   or(f.Mouth.Tongue, "subtle pink"),
			},
			Jawline: or(f.Jawline, "gentle"),
			Cheek:   or(f.Cheek, "slight rosy"),
			Ear: Ear{
				Shape: or(f.Ear.Shape, "small rounded"),
				Lobe:  or(f.Ear.Lobe, "attached"),
				Helix: or(f.Ear.Helix, "smooth"),
			},
		},
		Hair: Hair{
			Style:        or(seed.Hair.Style, "short kitten-fur style"),
			Length:       or(seed.Hair.Length, "short"),
			Color:        or(seed.Hair.Color, "orange ginger"),
			StrandDetail: or(seed.Hair.StrandDetail, "visible soft strands"),
			Dynamics:     or(seed.Hair.Dynamics, "light wind sway"),
		},
		Hands: Hands{
			Fingernails:      or(seed.Hands.Fingernails, "short clean"),
			KnuckleDetail:    or(seed.Hands.KnuckleDetail, "subtle"),
			FingerProportion: or(seed.Hands.FingerProportion, "child-safe proportion"),
		},
		Feet: Feet{
			Toenails:    or(seed.Feet.Toenails, "clean"),
			AnkleDetail: or(seed.Feet.AnkleDetail, "subtle"),
		},
		MuscleDefinition: or(seed.MuscleDefinition, "very subtle"),
		CurvatureDetail:  or(seed.CurvatureDetail, "gentle child curvature"),
	}
}

func BuildWardrobe(seed WardrobeDetail) WardrobeDetail {
	return WardrobeDetail{
		Top: Garment{
			Type:        or(seed.Top.Type, "t-shirt"),
			Color:       or(seed.Top.Color, "#2563EB"),
			ColorDetail: or(seed.Top.ColorDetail, "cool blue with soft highlights"),
			Material:    or(seed.Top.Material, "cotton knit"),
			Texture:     or(seed.Top.Texture, "fine weave"),
			Fit:         or(seed.Top.Fit, "relaxed"),
			Pattern:     or(seed.Top.Pattern, "plain"),
			Trim:        or(seed.Top.Trim, "soft ribbed collar"),
			Hem:         seed.Top.Hem,
		},
		Bottom: Garment{
			Type:        or(seed.Bottom.Type, "shorts"),
			Color:       or(seed.Bottom.Color, "#F59E0B"),
			ColorDetail: or(seed.Bottom.ColorDetail, "warm amber with soft shading"),
			Material:    or(seed.Bottom.Material, "cotton twill"),
			Texture:     or(seed.Bottom.Texture, "subtle diagonal weave"),
			Fit:         or(seed.Bottom.Fit, "easy fit"),
			Pattern:     or(seed.Bottom.Pattern, "plain"),
			Trim:        seed.Bottom.Trim,
			Hem:         or(seed.Bottom.Hem, "double stitch"),
		},
		Footwear: Footwear{
			Type:     or(seed.Footwear.Type, "sneakers"),
			Color:    or(seed.Footwear.Color, "#ffffff"),
			Material: or(seed.Footwear.Material, "canvas"),
			Sole:     or(seed.Footwear.Sole, "rubber soft"),
			Laces:    or(seed.Footwear.Laces, "flat white"),
		},
		Accessories: orList(seed.Accessories, "small bell collar"),
	}
}

func BuildPhysiology(seed PhysiologyDetail) PhysiologyDetail {
	return PhysiologyDetail{
		Breathing: Breathing{
			Style:       or(seed.Breathing.Style, "calm"),
			Cadence:     or(seed.Breathing.Cadence, "steady 8-10 cpm"),
			ChestMotion: or(seed.Breathing.ChestMotion, "subtle rise/fall"),
		},
		Gait: Gait{
			Style:      or(seed.Gait.Style, "playful run & hop"),
			Cadence:    or(seed.Gait.Cadence, "light quick steps"),
			FootImpact: or(seed.Gait.FootImpact, "soft heel-toe"),
			HipShift:   or(seed.Gait.HipShift, "subtle"),
		},
		Speech: Speech{
			Style:        or(seed.Speech.Style, "cheerful child"),
			Articulation: or(seed.Speech.Articulation, "clear, rounded vowels"),
			Speed:        or(seed.Speech.Speed, "moderate"),
			Warmth:       or(seed.Speech.Warmth, "friendly"),
		},
		MicroFacial: orList(seed.MicroFacial, "gentle blinks", "micro-smile", "brow micro-raise on emphasis"),
		ClothSim:    or(seed.ClothSim, "soft fabric sway and secondary motion on steps"),
	}
}

func BuildEnvironment(seed EnvDetail) EnvDetail {
	return EnvDetail{
		Sky: Sky{
			Type:     or(seed.Sky.Type, "clear noon"),
			Cloud:    or(seed.Sky.Cloud, "soft cumulus"),
			Color:    or(seed.Sky.Color, "bright blue gradient"),
			SunAngle: or(seed.Sky.SunAngle, "45deg"),
			Haze:     or(seed.Sky.Haze, "very light"),
		},
		Air: Air{
			Dust:     or(seed.Air.Dust, "few motes in sun shafts"),
			Pollen:   or(seed.Air.Pollen, "light"),
			Moisture: or(seed.Air.Moisture, "low"),
		},
		Lighting: EnvLighting{
			Key:        or(seed.Lighting.Key, "soft warm key"),
			Fill:       or(seed.Lighting.Fill, "gentle cool fill"),
			Rim:        or(seed.Lighting.Rim, "subtle golden rim"),
			Volumetric: or(seed.Lighting.Volumetric, "soft godrays in foliage gaps"),
			Bounce:     or(seed.Lighting.Bounce, "grass bounce light"),
			ColorGrade: or(seed.Lighting.ColorGrade, "vivid, playful contrast"),
		},
		Ground: Ground{
			Material:   or(seed.Ground.Material, "short grass"),
			Wetness:    or(seed.Ground.Wetness, "dry"),
			Reflection: or(seed.Ground.Reflection, "none"),
		},
		Flora:      orList(seed.Flora, "grass blades", "bushes", "trees with soft leaves"),
		Fauna:      orList(seed.Fauna, "butterflies distant", "small birds"),
		Props:      orList(seed.Props, "play ball", "swing set", "sandbox bucket"),
		AmbientSFX: orList(seed.AmbientSFX, "kids laughter distant", "birds chirp", "soft breeze"),
		Particles:  orList(seed.Particles, "dust motes", "leaf specks"),
	}
}

// BuildMicroFX returns the small lively effects layered on every scene of style.
func BuildMicroFX(style StyleKey) []string {
	fx := []string{"subtle lens breathing", "tiny chromatic sparkles on highlights"}
	switch style {
	case StyleRealFilm:
		return append(fx, "film grain subtle", "gate weave micro")
	case StyleMarvel:
		return append(fx, "heroic rim blooms", "micro embers on dramatic beats")
	case StylePixar:
		return append(fx, "soft light glitter", "bokeh twinkles")
	case StyleAnime:
		return append(fx, "speed-line wisps (very subtle)", "hand-drawn edge accent")
	default:
		return append(fx, "cartoon pop spark", "soft squash-stretch secondary")
	}
}
