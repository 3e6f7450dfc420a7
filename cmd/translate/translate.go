package translate

import (
	"bytes"
	"fmt"

	"cloud.google.com/go/translate"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/translation"
)

var translateCmd = &cobra.Command{
	Use:   "translate {doc.json} --to {lang}",
	Short: "Translate scene dialogue to another voiceover language",
	Long: `Translate scene dialogue to another voiceover language.

It uses Google Cloud Translation api, authenticated by GOOGLE_APPLICATION_CREDENTIALS.
Every non-empty scene dialogue is translated and global.audio.voiceover.language is set to the target.
Languages are BCP 47 tags (e.g. "en", "pt-BR") or short aliases ("id", "zh-tw", ...).`,
	RunE: doTranslate,
	Args: cobra.ExactArgs(1),
}

var (
	flagTo      string
	flagFrom    string
	outputFlags cmd.OutputFlags
)

func doTranslate(c *cobra.Command, args []string) error {
	if err := outputFlags.Check(); err != nil {
		return err
	}
	target, err := translation.ParseLanguage(flagTo)
	if err != nil {
		return err
	}
	source := language.Und
	if flagFrom != "" {
		if source, err = translation.ParseLanguage(flagFrom); err != nil {
			return err
		}
	}
	doc, _, err := cmd.ReadDocument(args[0])
	if err != nil {
		return err
	}
	client, err := translate.NewClient(c.Context())
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()
	doc, err = translation.TranslateDialogue(c.Context(), client, doc, target, source)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err = export.WriteJSON(buf, doc, true); err != nil {
		return err
	}
	return outputFlags.Write(c, buf.Bytes(), false)
}

func init() {
	translateCmd.Flags().StringVarP(&flagTo, "to", "t", "", "Target language (required)")
	translateCmd.Flags().StringVarP(&flagFrom, "from", "f", "", "Source language. Auto detected if not set")
	translateCmd.MarkFlagRequired("to")
	outputFlags.Add(translateCmd)
	cmd.RootCmd.AddCommand(translateCmd)
}
