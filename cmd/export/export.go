package export

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/store"
	"github.com/sagan/laras/util/pathutil"
)

var exportCmd = &cobra.Command{
	Use:   "export {doc.json} --format {format}",
	Short: "Export a LARAS document",
	Long: `Export a LARAS document.

Formats:
  json   : the document, pretty printed.
  scenes : one json file per scene ("scene_01.json", ...) in the --output dir.
           Each file is a full document with a single scene.
  csv    : one row per scene: scene, seconds, location, characters, action, dialogue, camera.
  txt    : voice-over script, one line per scene.
  md     : voice-over script in markdown, with the storyboard embedded as data url.
  png    : storyboard image (3 columns grid). See --theme.
  xlsx   : spreadsheet with "Scenes" and "Characters" sheets.
  prompt : per-scene text-to-video prompts. See --template and --scene.
  table  : plain text scene table for terminal.

The {doc.json} could be "-" for stdin.
Text formats are written to stdout by default. png / xlsx default to a file named after the title;
scenes defaults to a dir named after the title.`,
	RunE: doExport,
	Args: cobra.ExactArgs(1),
}

var formats = []string{"json", "scenes", "csv", "txt", "md", "png", "xlsx", "prompt", "table"}

var (
	flagFormat   string
	flagTheme    string
	flagTemplate string
	flagScene    int
	outputFlags  cmd.OutputFlags
)

func doExport(c *cobra.Command, args []string) (err error) {
	if !slices.Contains(formats, flagFormat) {
		return fmt.Errorf("invalid format %q (valid: %s)", flagFormat, strings.Join(formats, ", "))
	}
	doc, _, err := cmd.ReadDocument(args[0])
	if err != nil {
		return err
	}
	if !c.Flags().Changed("output") {
		switch flagFormat {
		case "png", "xlsx":
			outputFlags.Output = pathutil.DocumentFilename(doc.Title, "storyboard", "."+flagFormat)
		case "scenes":
			outputFlags.Output = pathutil.DocumentFilename(doc.Title, "scenes", "")
		}
	}

	if flagFormat == "scenes" {
		if outputFlags.Output == "-" {
			return fmt.Errorf("scenes format requires an output dir")
		}
		files, err := export.WriteSceneFiles(c.Context(), outputFlags.Output, doc, outputFlags.Force)
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Fprintln(c.OutOrStdout(), file)
		}
		return nil
	}

	if err = outputFlags.Check(); err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	isImage := false
	switch flagFormat {
	case "json":
		err = export.WriteJSON(buf, doc, true)
	case "csv":
		err = export.WriteCSV(buf, doc.Scenes)
	case "txt":
		buf.WriteString(export.VoiceoverText(doc))
	case "md":
		storyboard := &bytes.Buffer{}
		if err = export.RenderStoryboard(storyboard, doc, storyboardOptions()); err != nil {
			return err
		}
		buf.WriteString(export.VoiceoverMarkdown(doc, storyboard.Bytes()))
	case "png":
		isImage = true
		err = export.RenderStoryboard(buf, doc, storyboardOptions())
	case "xlsx":
		err = export.WriteXLSX(buf, doc)
	case "prompt":
		var prompts string
		if flagScene > 0 {
			prompts, err = export.ScenePrompt(doc, flagScene-1, flagTemplate)
		} else {
			prompts, err = export.ScenePrompts(doc, flagTemplate)
		}
		buf.WriteString(prompts + "\n")
	case "table":
		export.WriteSceneTable(buf, doc)
	}
	if err != nil {
		return err
	}
	if err = outputFlags.Write(c, buf.Bytes(), isImage); err != nil {
		return err
	}
	if outputFlags.Output != "-" && !outputFlags.AutoCopyOnly {
		log.Infof("exported %s (%d scenes) to %s", flagFormat, len(doc.Scenes), outputFlags.Output)
	}
	return nil
}

func storyboardOptions() export.StoryboardOptions {
	theme := flagTheme
	if theme == "" {
		theme = store.Load(cmd.OpenStore(), constants.KEY_THEME, constants.THEME_DARK)
	}
	return export.StoryboardOptions{Theme: theme}
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "Export format: "+strings.Join(formats, ", "))
	exportCmd.Flags().StringVarP(&flagTheme, "theme", "", "",
		`Storyboard theme: "dark" or "light". If not set, it uses the "`+constants.KEY_THEME+
			`" entry of local store, then "dark"`)
	exportCmd.Flags().StringVarP(&flagTemplate, "template", "", "", "Prompt template. "+constants.HELP_TEMPLATE_FLAG)
	exportCmd.Flags().IntVarP(&flagScene, "scene", "", 0, "Export the prompt of this scene only (1-based)")
	outputFlags.Add(exportCmd)
	cmd.RootCmd.AddCommand(exportCmd)
}
