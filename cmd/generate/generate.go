package generate

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/store"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/helper"
)

var generateCmd = &cobra.Command{
	Use:   "generate [--form form.yaml] [flags]",
	Short: "Generate a LARAS draft from a form",
	Long: `Generate a LARAS draft from a form.

The form is a json / yaml / toml file of the request fields:
  title, instruction, style, preset, scenes, total_seconds, split, beats,
  characters, objects, locations, aspect, resolution, fps, safe_mode, language, mix_profile.
Flags override form fields. Missing fields use defaults
(60 seconds of 8s scenes, "Cartoon" style, 16:9, 24 fps, safe mode, "id" voiceover).

With --enhance, the draft is rewritten by the model (directly or through the relay, see --proxy).
The enhanced document keeps every key returned by the model.

On success the form and the character bible are saved to the local store,
unless --no-save is set. Use --last to start from the saved form.

Example:
  laras generate --title "Kancil" --character "Kancil:hero" --object fauna:crocodile --total 40
  laras generate --form story.yaml --enhance -o story.json`,
	RunE: doGenerate,
	Args: cobra.NoArgs,
}

var (
	flagForm        string
	flagLast        bool
	flagTitle       string
	flagInstruction string
	flagStyle       string
	flagPreset      string
	flagScenes      int
	flagTotal       int
	flagSplit       bool
	flagBeats       int
	flagCharacters  []string
	flagObjects     []string
	flagLocations   []string
	flagAspect      string
	flagFPS         int
	flagUnsafe      bool
	flagLanguage    string
	flagSeed        string
	flagEnrich      bool
	flagEnhance     bool
	flagStrict      bool
	flagNoSave      bool
	outputFlags     cmd.OutputFlags
	enhanceFlags    cmd.EnhanceFlags
)

func doGenerate(c *cobra.Command, args []string) (err error) {
	if err = outputFlags.Check(); err != nil {
		return err
	}
	s := cmd.OpenStore()
	req := story.DefaultRequest()
	if flagLast {
		req = store.Load(s, constants.KEY_LAST_FORM, req)
	}
	if flagForm != "" {
		contents, err := helper.ReadInput(flagForm)
		if err != nil {
			return err
		}
		if err = util.UnmarshalInto(util.FormatOf(flagForm), bytes.NewReader(contents), &req); err != nil {
			return fmt.Errorf("invalid form %q: %w", flagForm, err)
		}
	}
	if err = applyFlags(c, &req); err != nil {
		return err
	}

	var opts []story.Option
	if flagSeed != "" {
		opts = append(opts, story.WithRand(seededReader(flagSeed)))
	}
	doc, err := story.Assemble(req, opts...)
	if err != nil {
		return err
	}
	if flagEnrich {
		enrichOpts := story.DefaultEnrichOptions()
		enrichOpts.Seed = doc.Consistency.Seed
		doc = story.EnrichBible(doc, enrichOpts)
	}
	requested := len(doc.Scenes)

	var output any = doc
	if flagEnhance {
		enhancer, err := enhanceFlags.Enhancer(s)
		if err != nil {
			return err
		}
		res, err := enhancer.Enhance(c.Context(), req.Instruction, doc)
		if err != nil {
			return fmt.Errorf("enhance failed: %w", err)
		}
		for _, a := range res.Attempts {
			log.Debugf("attempt: %s", a)
		}
		output = res.Document
		if doc, err = story.DecodeValue(res.Document); err != nil {
			return fmt.Errorf("enhanced document is malformed: %w", err)
		}
	}

	report := story.Validate(doc, requested, req.ValidateOptions()...)
	for _, issue := range report.Issues {
		log.Warnf("%s", issue)
	}
	if flagStrict && !report.OK {
		return fmt.Errorf("document has %d validation issues", len(report.Issues))
	}

	if !flagNoSave {
		if err := store.Save(s, constants.KEY_LAST_FORM, req); err != nil {
			log.Warnf("failed to save form: %v", err)
		}
		if err := store.Save(s, constants.KEY_CHARACTER_BIBLE, story.NewCharacterBible(doc)); err != nil {
			log.Warnf("failed to save character bible: %v", err)
		}
	}

	buf := &bytes.Buffer{}
	if err = export.WriteJSON(buf, output, true); err != nil {
		return err
	}
	return outputFlags.Write(c, buf.Bytes(), false)
}

// applyFlags overrides req with the flags set in command line.
func applyFlags(c *cobra.Command, req *story.Request) error {
	changed := c.Flags().Changed
	if changed("title") {
		req.Title = flagTitle
	}
	if changed("instruction") {
		req.Instruction = flagInstruction
	}
	if changed("style") {
		req.Style = story.StyleKey(flagStyle)
	}
	if changed("preset") {
		req.Preset = flagPreset
	}
	if changed("scenes") {
		req.Scenes = flagScenes
	}
	if changed("total") {
		req.TotalSeconds = flagTotal
	}
	if changed("split") {
		req.Split = flagSplit
	}
	if changed("beats") {
		req.Beats = flagBeats
	}
	if changed("aspect") {
		req.Aspect = flagAspect
	}
	if changed("fps") {
		req.FPS = flagFPS
	}
	if changed("unsafe") {
		req.SafeMode = !flagUnsafe
	}
	if changed("language") {
		req.Language = flagLanguage
	}
	for _, value := range flagCharacters {
		name, role, _ := strings.Cut(value, ":")
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid --character %q: empty name", value)
		}
		req.Characters = append(req.Characters, story.Character{
			DisplayName: strings.TrimSpace(name),
			Role:        strings.TrimSpace(role),
		})
	}
	for _, value := range flagObjects {
		kind, name, found := strings.Cut(value, ":")
		if !found {
			kind, name = string(story.ItemProp), value
		}
		req.Objects = append(req.Objects, story.Item{Kind: story.ItemKind(strings.TrimSpace(kind)), Name: strings.TrimSpace(name)})
	}
	req.Locations = append(req.Locations, flagLocations...)
	return nil
}

// seededReader returns a deterministic random byte stream derived from seed.
func seededReader(seed string) *rand.ChaCha8 {
	return rand.NewChaCha8(sha256.Sum256([]byte(seed)))
}

func init() {
	generateCmd.Flags().StringVarP(&flagForm, "form", "f", "", `Form file (json / yaml / toml). Use "-" for stdin`)
	generateCmd.Flags().BoolVarP(&flagLast, "last", "", false, `Start from the form saved by the last generate`)
	generateCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "Story title")
	generateCmd.Flags().StringVarP(&flagInstruction, "instruction", "i", "", "Story instruction, also sent to the model")
	generateCmd.Flags().StringVarP(&flagStyle, "style", "s", "", "Style profile: "+constants.HELP_STYLES)
	generateCmd.Flags().StringVarP(&flagPreset, "preset", "p", "", `Visual preset key (see "laras presets")`)
	generateCmd.Flags().IntVarP(&flagScenes, "scenes", "", 0, "Scene count. If not set, derived from --total")
	generateCmd.Flags().IntVarP(&flagTotal, "total", "", 0, "Total duration in seconds")
	generateCmd.Flags().BoolVarP(&flagSplit, "split", "", false, "Split --total into scenes of at most 8s, the last may be shorter")
	generateCmd.Flags().IntVarP(&flagBeats, "beats", "", 0, `Generate a "laras.story" document paced over this many beats`)
	generateCmd.Flags().StringArrayVarP(&flagCharacters, "character", "", nil,
		`Add a character. Format: "name" or "name:role". Can be set multiple times`)
	generateCmd.Flags().StringArrayVarP(&flagObjects, "object", "", nil,
		`Add an object. Format: "kind:name" or "name" (prop). `+
			`kind: "prop", "flora", "fauna", "effect", "sfx", "particle". Can be set multiple times`)
	generateCmd.Flags().StringArrayVarP(&flagLocations, "location", "", nil, "Add a location. Can be set multiple times")
	generateCmd.Flags().StringVarP(&flagAspect, "aspect", "", "", `Aspect ratio: "16:9", "9:16", "1:1"`)
	generateCmd.Flags().IntVarP(&flagFPS, "fps", "", 0, "Frames per second")
	generateCmd.Flags().BoolVarP(&flagUnsafe, "unsafe", "", false, "Disable safe (family friendly) mode")
	generateCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", `Voiceover language (BCP 47), e.g. "id", "en"`)
	generateCmd.Flags().StringVarP(&flagSeed, "seed", "", "", "Seed of generated ids. Same seed and form give the same ids")
	generateCmd.Flags().BoolVarP(&flagEnrich, "enrich", "", false, "Attach the hair / cloth / shoe character bible")
	generateCmd.Flags().BoolVarP(&flagEnhance, "enhance", "e", false, "Enhance the draft with the model")
	generateCmd.Flags().BoolVarP(&flagStrict, "strict", "", false, "Fail if the document has validation issues")
	generateCmd.Flags().BoolVarP(&flagNoSave, "no-save", "", false, "Do not save form and character bible to local store")
	outputFlags.Add(generateCmd)
	enhanceFlags.Add(generateCmd)
	cmd.RootCmd.AddCommand(generateCmd)
}
