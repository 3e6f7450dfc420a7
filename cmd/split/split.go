package split

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
)

var splitCmd = &cobra.Command{
	Use:   "split {total_seconds}",
	Short: "Split a total duration into scenes",
	Long: `Split a total duration into scenes.

By default the total is split into scenes of at most --max (8) seconds; all scenes but the last
are exactly --max seconds long. With --beats, the total is spread over pacing beats instead
(each beat at least 3 seconds).
The total is clamped to [1, 600] seconds ([10, 1200] with --beats).`,
	RunE: doSplit,
	Args: cobra.ExactArgs(1),
}

var (
	flagMax   int
	flagBeats int
	flagJson  bool
)

func doSplit(c *cobra.Command, args []string) error {
	total, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid total seconds %q: %w", args[0], err)
	}
	var durations []int
	if flagBeats > 0 {
		total = story.ClampTotal(total, story.MinStorySeconds, story.MaxStorySeconds)
		durations = story.WeightedBeats(flagBeats, total)
	} else {
		total = story.ClampTotal(total, story.MinTotalSeconds, story.MaxTotalSeconds)
		durations = story.SplitDurations(total, flagMax)
	}
	if flagJson {
		return export.WriteJSON(c.OutOrStdout(), durations, false)
	}
	sum := 0
	for i, d := range durations {
		fmt.Fprintf(c.OutOrStdout(), "%s  %ds\n", story.SceneID(i+1), d)
		sum += d
	}
	fmt.Fprintf(c.OutOrStdout(), "// %d segments, %ds total\n", len(durations), sum)
	return nil
}

func init() {
	splitCmd.Flags().IntVarP(&flagMax, "max", "", story.MaxSceneSeconds, "Max seconds per scene")
	splitCmd.Flags().IntVarP(&flagBeats, "beats", "", 0, "Spread the total over this many beats")
	splitCmd.Flags().BoolVarP(&flagJson, "json", "", false, "Output durations as json array")
	cmd.RootCmd.AddCommand(splitCmd)
}
