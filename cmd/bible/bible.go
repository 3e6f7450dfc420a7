package bible

import (
	"bytes"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/store"
	"github.com/sagan/laras/features/story"
)

var bibleCmd = &cobra.Command{
	Use:   "bible {doc.json}",
	Short: "Attach the detailed character bible to a document",
	Long: `Attach the detailed character bible to a document.

Every character gets generated hair strands, cloth threads (per wardrobe garment) and shoe stitches,
and every scene gets a continuity summary locking the referenced characters.
The generation is deterministic: the same document, counts and --seed give the same output.
The seed defaults to the document's consistency seed.

With --extract, only the character bible (consistency block, characters and roster) is output.
With --save, the bible is also saved to local store as "` + constants.KEY_CHARACTER_BIBLE + `".`,
	RunE: doBible,
	Args: cobra.ExactArgs(1),
}

var (
	flagHair         int
	flagCloth        int
	flagShoe         int
	flagSeed         string
	flagNoContinuity bool
	flagExtract      bool
	flagSave         bool
	outputFlags      cmd.OutputFlags
)

func doBible(c *cobra.Command, args []string) error {
	if err := outputFlags.Check(); err != nil {
		return err
	}
	doc, _, err := cmd.ReadDocument(args[0])
	if err != nil {
		return err
	}
	seed := flagSeed
	if seed == "" {
		seed = doc.Consistency.Seed
	}
	doc = story.EnrichBible(doc, story.EnrichOptions{
		HairStrands:    flagHair,
		ClothThreads:   flagCloth,
		ShoeStitches:   flagShoe,
		Seed:           seed,
		SkipContinuity: flagNoContinuity,
	})
	bible := story.NewCharacterBible(doc)
	if flagSave {
		if err := store.Save(cmd.OpenStore(), constants.KEY_CHARACTER_BIBLE, bible); err != nil {
			return err
		}
		log.Infof("saved character bible of %d characters", len(bible.Characters))
	}
	var output any = doc
	if flagExtract {
		output = bible
	}
	buf := &bytes.Buffer{}
	if err := export.WriteJSON(buf, output, true); err != nil {
		return err
	}
	return outputFlags.Write(c, buf.Bytes(), false)
}

func init() {
	defaults := story.DefaultEnrichOptions()
	bibleCmd.Flags().IntVarP(&flagHair, "hair", "", defaults.HairStrands, "Hair strands per character. 0 for none")
	bibleCmd.Flags().IntVarP(&flagCloth, "cloth", "", defaults.ClothThreads, "Cloth threads per garment. 0 for none")
	bibleCmd.Flags().IntVarP(&flagShoe, "shoe", "", defaults.ShoeStitches, "Shoe stitches per character. 0 for none")
	bibleCmd.Flags().StringVarP(&flagSeed, "seed", "", "", "Generation seed. Defaults to the document's consistency seed")
	bibleCmd.Flags().BoolVarP(&flagNoContinuity, "no-continuity", "", false, "Do not attach scene continuity summaries")
	bibleCmd.Flags().BoolVarP(&flagExtract, "extract", "x", false, "Output the character bible only")
	bibleCmd.Flags().BoolVarP(&flagSave, "save", "", false, "Save the character bible to local store")
	outputFlags.Add(bibleCmd)
	cmd.RootCmd.AddCommand(bibleCmd)
}
