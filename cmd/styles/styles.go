package styles

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/stringutil"
)

var stylesCmd = &cobra.Command{
	Use:   "styles [style]",
	Short: "List style profiles",
	Long: `List style profiles.

With a [style] arg, it outputs the full profile (grading, palette, lens, music, sfx, lighting, ...) as json.`,
	RunE: doStyles,
	Args: cobra.MaximumNArgs(1),
}

var (
	flagJson bool
)

func doStyles(c *cobra.Command, args []string) error {
	if len(args) > 0 {
		profile, err := story.LookupStyle(story.StyleKey(args[0]))
		if err != nil {
			return err
		}
		return export.WriteJSON(c.OutOrStdout(), profile, true)
	}
	profiles := story.Styles()
	if flagJson {
		return export.WriteJSON(c.OutOrStdout(), profiles, true)
	}
	buf := &bytes.Buffer{}
	for _, p := range profiles {
		stringutil.PrintStringInWidth(buf, string(p.Key), 12, true)
		stringutil.PrintStringInWidth(buf, p.Grading, 44, true)
		fmt.Fprintf(buf, "  %s\n", strings.Join(util.Map(p.Palette, func(s story.Swatch) string { return s.Value }), " "))
	}
	_, err := c.OutOrStdout().Write(buf.Bytes())
	return err
}

func init() {
	stylesCmd.Flags().BoolVarP(&flagJson, "json", "", false, "Output all profiles as json")
	cmd.RootCmd.AddCommand(stylesCmd)
}
