package enhance

import (
	"bytes"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance {draft.json} [-i instruction]",
	Short: "Enhance a LARAS draft with the model",
	Long: `Enhance a LARAS draft with the model.

If --proxy flag or LARAS_PROXY_URL env is set, the draft is POSTed to the relay as {instruction, draft}.
Otherwise Gemini is called directly with the api key. Models are tried in order;
only a 429 (rate limit / quota) response advances to the next model.

The {draft.json} could be "-" for stdin. The instruction defaults to the draft's "instruction" field.
The enhanced document is validated against the draft's scene count, issues are logged as warnings.`,
	RunE: doEnhance,
	Args: cobra.ExactArgs(1),
}

var (
	flagInstruction string
	flagStrict      bool
	flagCompact     bool
	outputFlags     cmd.OutputFlags
	enhanceFlags    cmd.EnhanceFlags
)

func doEnhance(c *cobra.Command, args []string) error {
	if err := outputFlags.Check(); err != nil {
		return err
	}
	draft, contents, err := cmd.ReadDocument(args[0])
	if err != nil {
		return err
	}
	instruction := flagInstruction
	if instruction == "" {
		instruction = draft.Instruction
	}
	enhancer, err := enhanceFlags.Enhancer(cmd.OpenStore())
	if err != nil {
		return err
	}
	log.Infof("enhancing %q (%d scenes) in %s mode", draft.Title, len(draft.Scenes), enhancer.Mode())
	// send the draft as read so keys unknown to Document survive
	res, err := enhancer.Enhance(c.Context(), instruction, json.RawMessage(contents))
	if err != nil {
		return fmt.Errorf("enhance failed: %w", err)
	}
	for _, a := range res.Attempts {
		log.Infof("attempt: %s", a)
	}
	doc, err := story.DecodeValue(res.Document)
	if err != nil {
		return fmt.Errorf("enhanced document is malformed: %w", err)
	}
	report := story.Validate(doc, len(draft.Scenes))
	for _, issue := range report.Issues {
		log.Warnf("%s", issue)
	}
	if flagStrict && !report.OK {
		return fmt.Errorf("enhanced document has %d validation issues", len(report.Issues))
	}
	buf := &bytes.Buffer{}
	if err = export.WriteJSON(buf, res.Document, !flagCompact); err != nil {
		return err
	}
	return outputFlags.Write(c, buf.Bytes(), false)
}

func init() {
	enhanceCmd.Flags().StringVarP(&flagInstruction, "instruction", "i", "", "Instruction sent with the draft")
	enhanceCmd.Flags().BoolVarP(&flagStrict, "strict", "", false, "Fail if the enhanced document has validation issues")
	enhanceCmd.Flags().BoolVarP(&flagCompact, "compact", "", false, "Output compact json")
	outputFlags.Add(enhanceCmd)
	enhanceFlags.Add(enhanceCmd)
	cmd.RootCmd.AddCommand(enhanceCmd)
}
