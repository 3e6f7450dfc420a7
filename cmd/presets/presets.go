package presets

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/stringutil"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [key]",
	Short: "List visual presets",
	Long: `List visual presets.

A preset overrides palette, default lens, lighting and camera mood of the style profile.
Use it with "laras generate --preset {key}". With a [key] arg, it outputs the preset as json.`,
	RunE: doPresets,
	Args: cobra.MaximumNArgs(1),
}

var (
	flagJson bool
)

func doPresets(c *cobra.Command, args []string) error {
	if len(args) > 0 {
		preset, err := story.LookupPreset(args[0])
		if err != nil {
			return err
		}
		return export.WriteJSON(c.OutOrStdout(), preset, true)
	}
	presets := story.Presets()
	if flagJson {
		return export.WriteJSON(c.OutOrStdout(), presets, true)
	}
	buf := &bytes.Buffer{}
	for _, p := range presets {
		stringutil.PrintStringInWidth(buf, p.Key, 24, true)
		stringutil.PrintStringInWidth(buf, string(p.Style), 10, true)
		stringutil.PrintStringInWidth(buf, p.Name, 36, true)
		fmt.Fprintf(buf, "  %smm\n", strings.Join(p.Lenses, "/"))
	}
	_, err := c.OutOrStdout().Write(buf.Bytes())
	return err
}

func init() {
	presetsCmd.Flags().BoolVarP(&flagJson, "json", "", false, "Output all presets as json")
	cmd.RootCmd.AddCommand(presetsCmd)
}
