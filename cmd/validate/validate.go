package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/clipboard"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/helper"
)

var validateCmd = &cobra.Command{
	Use:   "validate {file.json}...",
	Short: "Validate LARAS documents",
	Long: `Validate LARAS documents.

It checks: scene count (--scenes), scene durations, sequential scene ids,
character and location references, Intro / Outro tags and the folklore roster.
With --schema, the document is also checked against the LARAS json schema.

Args are file names or glob patterns; "-" reads stdin. Use --clipboard to validate the clipboard text.
Issues are printed one per line ("file: [code] message"), or as json with --json.
It exits with error if any document has issues.`,
	RunE: doValidate,
}

var (
	flagScenes     int
	flagSchema     bool
	flagAllowShort bool
	flagJson       bool
	flagClipboard  bool
)

type result struct {
	File   string       `json:"file"`
	Report story.Report `json:"report"`
	Schema []string     `json:"schema,omitempty"`
}

func doValidate(c *cobra.Command, args []string) error {
	filenames := helper.ParseFilenameArgs(args...)
	if len(filenames) == 0 && !flagClipboard {
		return fmt.Errorf("no input files")
	}
	var opts []story.ValidateOption
	if flagAllowShort {
		opts = append(opts, story.AllowShortScenes())
	}
	var results []result
	failed, total := 0, len(filenames)
	check := func(name string, doc *story.Document, contents []byte) error {
		r := result{File: name, Report: story.Validate(doc, flagScenes, opts...)}
		if flagSchema {
			violations, err := story.ValidateSchema(contents)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			r.Schema = violations
		}
		if !r.Report.OK || len(r.Schema) > 0 {
			failed++
		}
		results = append(results, r)
		return nil
	}
	if flagClipboard {
		contents, err := clipboard.Get()
		if err != nil {
			return err
		}
		total++
		doc, err := story.DecodeDocument(contents)
		if err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
		if err = check("clipboard", doc, contents); err != nil {
			return err
		}
	}
	for _, name := range filenames {
		doc, contents, err := cmd.ReadDocument(name)
		if err != nil {
			log.Errorf("%v", err)
			failed++
			continue
		}
		if err = check(name, doc, contents); err != nil {
			return err
		}
	}

	if flagJson {
		buf := &bytes.Buffer{}
		encoder := json.NewEncoder(buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
		c.OutOrStdout().Write(buf.Bytes())
	} else {
		for _, r := range results {
			if r.Report.OK && len(r.Schema) == 0 {
				fmt.Fprintf(c.OutOrStdout(), "%s: ok\n", r.File)
				continue
			}
			for _, issue := range r.Report.Issues {
				fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", r.File, issue)
			}
			for _, v := range r.Schema {
				fmt.Fprintf(c.OutOrStdout(), "%s: [schema] %s\n", r.File, v)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, total)
	}
	return nil
}

func init() {
	validateCmd.Flags().IntVarP(&flagScenes, "scenes", "", 0, "Expected scene count. 0 skips the check")
	validateCmd.Flags().BoolVarP(&flagSchema, "schema", "", false, "Also validate against the json schema")
	validateCmd.Flags().BoolVarP(&flagAllowShort, "allow-short", "", false,
		`Accept scenes shorter than 8s (split mode drafts). Always on for "laras.story" documents`)
	validateCmd.Flags().BoolVarP(&flagJson, "json", "", false, "Output reports as json")
	validateCmd.Flags().BoolVarP(&flagClipboard, "clipboard", "", false, "Validate the clipboard text")
	cmd.RootCmd.AddCommand(validateCmd)
}
