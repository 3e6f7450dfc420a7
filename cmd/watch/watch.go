package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/llm"
	"github.com/sagan/laras/features/session"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/helper"
)

var watchCmd = &cobra.Command{
	Use:   "watch {form.yaml} -o {doc.json}",
	Short: "Regenerate a document whenever its form file changes",
	Long: `Regenerate a document whenever its form file changes.

The form file (json / yaml / toml, see "laras generate") is polled every --interval.
On change, the draft is assembled (and enhanced with --enhance) and written to --output.
A change during a running enhancement cancels it; only the result of the latest form is written.

Example:
  laras watch story.yaml -o story.json --enhance --exec "laras export story.json -f png --force"`,
	Args: cobra.ExactArgs(1),
	RunE: doWatch,
}

var (
	flagInterval time.Duration
	flagEnhance  bool
	flagOutput   string
	flagExec     string
	flagShell    bool
	enhanceFlags cmd.EnhanceFlags
)

type result struct {
	contents []byte
	form     time.Time
}

func doWatch(c *cobra.Command, args []string) (err error) {
	if flagInterval <= 0 {
		return fmt.Errorf("invalid interval")
	}
	form := args[0]
	var enhancer *llm.Enhancer
	if flagEnhance {
		if enhancer, err = enhanceFlags.Enhancer(cmd.OpenStore()); err != nil {
			return err
		}
	}
	ctx := c.Context()
	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()

	var (
		runner  session.Runner[*result]
		wg      sync.WaitGroup
		writeMu sync.Mutex
		lastMod time.Time
	)
	check := func() {
		info, err := os.Stat(form)
		if err != nil {
			log.Warnf("stat %s: %v", form, err)
			return
		}
		if !info.ModTime().After(lastMod) {
			return
		}
		lastMod = info.ModTime()
		log.Infof("%s changed, generating", form)
		wg.Add(1)
		go func(modTime time.Time) {
			defer wg.Done()
			res, err := runner.Run(ctx, func(ctx context.Context) (*result, error) {
				contents, err := build(ctx, form, enhancer)
				if err != nil {
					return nil, err
				}
				return &result{contents: contents, form: modTime}, nil
			})
			switch {
			case errors.Is(err, session.ErrSuperseded):
				log.Debugf("generation of %s superseded", modTime)
				return
			case err != nil:
				log.Errorf("generate failed: %v", err)
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			if current, _ := runner.Current(); current != res {
				return
			}
			if err := helper.WriteOutput(flagOutput, c.OutOrStdout(), res.contents); err != nil {
				log.Errorf("write output: %v", err)
				return
			}
			if flagOutput != "-" {
				log.Infof("wrote %s (form of %s)", flagOutput, res.form.Format(time.TimeOnly))
			}
			if flagExec != "" {
				if err := helper.RunCmdline(flagExec, flagShell, nil, c.OutOrStdout(), c.ErrOrStderr()); err != nil {
					log.Errorf("command failed: %v", err)
				}
			}
		}(lastMod)
	}

	check()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			runner.Cancel()
			wg.Wait()
			return nil
		}
	}
}

// build assembles (and enhances) the document of the form file and returns it as json.
func build(ctx context.Context, form string, enhancer *llm.Enhancer) ([]byte, error) {
	contents, err := helper.ReadInput(form)
	if err != nil {
		return nil, err
	}
	req := story.DefaultRequest()
	if err = util.UnmarshalInto(util.FormatOf(form), bytes.NewReader(contents), &req); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	doc, err := story.Assemble(req)
	if err != nil {
		return nil, err
	}
	var output any = doc
	if enhancer != nil {
		res, err := enhancer.Enhance(ctx, req.Instruction, doc)
		if err != nil {
			return nil, err
		}
		enhanced, err := story.DecodeValue(res.Document)
		if err != nil {
			return nil, fmt.Errorf("enhanced document is malformed: %w", err)
		}
		for _, issue := range story.Validate(enhanced, len(doc.Scenes), req.ValidateOptions()...).Issues {
			log.Warnf("%s", issue)
		}
		output = res.Document
	}
	buf := &bytes.Buffer{}
	if err = export.WriteJSON(buf, output, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func init() {
	watchCmd.Flags().DurationVarP(&flagInterval, "interval", "n", 2*time.Second, "Form file polling interval")
	watchCmd.Flags().BoolVarP(&flagEnhance, "enhance", "e", false, "Enhance every generated draft with the model")
	watchCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
	watchCmd.Flags().StringVarP(&flagExec, "exec", "x", "",
		`Run this cmdline after every written document, e.g. "laras export story.json -f png --force"`)
	watchCmd.Flags().BoolVarP(&flagShell, "shell", "", false, `Run --exec cmdline using "sh -c" (or "cmd /C")`)
	enhanceFlags.Add(watchCmd)
	cmd.RootCmd.AddCommand(watchCmd)
}
